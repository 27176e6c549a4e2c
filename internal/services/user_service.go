package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/constants"
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/policy"
	"github.com/tracklane/task-tracker-api/internal/repository"
)

var ErrUserAlreadyInactive = errors.New("user already deactivated")

// UserService handles admin user management and self-service password change.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateUserInput represents an admin update of identity fields and role flags.
type UpdateUserInput struct {
	Email      *string
	Username   *string
	Name       *string
	Surname    *string
	Patronymic *string
	IsAdmin    *bool
	IsManager  *bool
	IsUser     *bool
}

// Update modifies a user. Admin only; email and username stay unique across
// other users.
func (s *UserService) Update(actor *models.User, userID uint64, input UpdateUserInput) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrPermissionDenied
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := s.checkEmailFree(*input.Email, userID); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Username != nil && *input.Username != user.Username {
		if err := s.checkUsernameFree(*input.Username, userID); err != nil {
			return nil, err
		}
		user.Username = *input.Username
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Surname != nil {
		user.Surname = *input.Surname
	}
	if input.Patronymic != nil {
		user.Patronymic = *input.Patronymic
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}
	if input.IsManager != nil {
		user.IsManager = *input.IsManager
	}
	if input.IsUser != nil {
		user.IsUser = *input.IsUser
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword updates the actor's own password after verifying the old one.
func (s *UserService) ChangePassword(actor *models.User, oldPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	actor.PasswordHash = string(hash)
	if err := s.userRepo.Update(actor); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// Deactivate disables a user account. Users are never hard-deleted.
func (s *UserService) Deactivate(actor *models.User, userID uint64) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrPermissionDenied
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserAlreadyInactive
	}

	user.IsActive = false
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}

	return user, nil
}

func (s *UserService) findUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *UserService) checkEmailFree(email string, userID uint64) error {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != userID {
		return ErrEmailTaken
	}
	return nil
}

func (s *UserService) checkUsernameFree(username string, userID uint64) error {
	existing, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing.ID != userID {
		return ErrUsernameTaken
	}
	return nil
}
