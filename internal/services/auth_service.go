package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/auth"
	"github.com/tracklane/task-tracker-api/internal/constants"
	"github.com/tracklane/task-tracker-api/internal/metrics"
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/policy"
	"github.com/tracklane/task-tracker-api/internal/repository"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserInactive         = errors.New("user account is deactivated")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already in use")
	ErrUsernameTaken        = errors.New("username already in use")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles credential verification, token issuance, and the
// admin-gated registration flow.
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *auth.TokenIssuer
	log      *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, issuer *auth.TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		log:      log,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the user with a signed access
// token. Deactivated accounts are rejected.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.IncrementAuthFailure()
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.IncrementAuthFailure()
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.IncrementAuthFailure()
		return nil, "", ErrUserInactive
	}

	token, err := s.issuer.Issue(user.ID, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// RegisterInput represents the information to create a new user. Role flags
// may be set at registration because only admins can register users.
type RegisterInput struct {
	Email      string
	Username   string
	Password   string
	Name       string
	Surname    string
	Patronymic string
	IsAdmin    bool
	IsManager  bool
	IsUser     bool
}

// Register creates a user. Admin-gated: accounts do not self-register.
func (s *AuthService) Register(actor *models.User, input RegisterInput) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrPermissionDenied
	}

	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		Name:         input.Name,
		Surname:      input.Surname,
		Patronymic:   input.Patronymic,
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      input.IsAdmin,
		IsManager:    input.IsManager,
		IsUser:       input.IsUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered",
		zap.Uint64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Uint64("registered_by", actor.ID),
	)

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
