package dto

import (
	"time"

	"github.com/tracklane/task-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	Patronymic string    `json:"patronymic"`
	IsActive   bool      `json:"is_active"`
	IsAdmin    bool      `json:"is_admin"`
	IsManager  bool      `json:"is_manager"`
	IsUser     bool      `json:"is_user"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserRefDTO is the short user shape embedded in other resources
type UserRefDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		Name:       user.Name,
		Surname:    user.Surname,
		Patronymic: user.Patronymic,
		IsActive:   user.IsActive,
		IsAdmin:    user.IsAdmin,
		IsManager:  user.IsManager,
		IsUser:     user.IsUser,
		CreatedAt:  user.CreatedAt,
	}
}

// ToUserRefDTO converts a User model to UserRefDTO
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}
