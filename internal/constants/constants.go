package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyActor is the gin context key holding the resolved actor.
	ContextKeyActor = "actor"

	// AuthCookieName is the cookie carrying the access token for browser clients.
	AuthCookieName = "task_tracker_access_token"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
