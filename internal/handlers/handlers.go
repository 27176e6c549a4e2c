package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tracklane/task-tracker-api/internal/errors"
	"github.com/tracklane/task-tracker-api/internal/middleware"
	"github.com/tracklane/task-tracker-api/internal/models"
)

// currentActor returns the authenticated user resolved by RequireAuth.
// Writes the 401 response itself when the context has no actor.
func currentActor(c *gin.Context) (*models.User, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return actor, true
}

// parseIDParam parses a numeric path parameter. Writes the 400 response
// itself on bad input.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
