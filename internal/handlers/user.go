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

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateUser modifies identity fields and role flags. Admin only.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Email      *string `json:"email" binding:"omitempty,email"`
		Username   *string `json:"username" binding:"omitempty,min=3,max=50"`
		Name       *string `json:"name"`
		Surname    *string `json:"surname"`
		Patronymic *string `json:"patronymic"`
		IsAdmin    *bool   `json:"is_admin"`
		IsManager  *bool   `json:"is_manager"`
		IsUser     *bool   `json:"is_user"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Update(actor, userID, services.UpdateUserInput{
		Email:      req.Email,
		Username:   req.Username,
		Name:       req.Name,
		Surname:    req.Surname,
		Patronymic: req.Patronymic,
		IsAdmin:    req.IsAdmin,
		IsManager:  req.IsManager,
		IsUser:     req.IsUser,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangePassword lets the authenticated user rotate their own password
// after proving they know the current one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type ChangePasswordRequest struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(actor, req.OldPassword, req.NewPassword); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}

// DeactivateUser flips a user inactive. Admin only; accounts are never
// hard-deleted.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Deactivate(actor, userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		metrics.IncrementPermissionDenied("user")
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrUserAlreadyInactive):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.BadRequest(c, "Old password is incorrect")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
