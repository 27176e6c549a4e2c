package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tracklane/task-tracker-api/internal/constants"
	"github.com/tracklane/task-tracker-api/internal/dto"
	apierrors "github.com/tracklane/task-tracker-api/internal/errors"
	"github.com/tracklane/task-tracker-api/internal/metrics"
	"github.com/tracklane/task-tracker-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	cookieMaxAge int
}

// NewAuthHandler creates a new AuthHandler. cookieMaxAge is the access
// cookie lifetime in seconds, normally the token TTL.
func NewAuthHandler(authService *services.AuthService, cookieMaxAge int) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
	}
}

// Login authenticates a user and issues an access token. The token is
// returned in the body and also set as an HttpOnly cookie so browser
// clients need no extra handling.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.SetCookie(constants.AuthCookieName, token, h.cookieMaxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         dto.ToUserDTO(*user),
	})
}

// Logout clears the access cookie. The token itself stays valid until it
// expires; there is no server-side session to revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(constants.AuthCookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*actor))
}

// Register creates a new user account. Admin only; there is no open
// self-registration.
func (h *AuthHandler) Register(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type RegisterRequest struct {
		Email      string `json:"email" binding:"required,email"`
		Username   string `json:"username" binding:"required,min=3,max=50"`
		Password   string `json:"password" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Surname    string `json:"surname" binding:"required"`
		Patronymic string `json:"patronymic"`
		IsAdmin    bool   `json:"is_admin"`
		IsManager  bool   `json:"is_manager"`
		IsUser     bool   `json:"is_user"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(actor, services.RegisterInput{
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		Name:       req.Name,
		Surname:    req.Surname,
		Patronymic: req.Patronymic,
		IsAdmin:    req.IsAdmin,
		IsManager:  req.IsManager,
		IsUser:     req.IsUser,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		metrics.IncrementPermissionDenied("user")
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserInactive):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
