package database

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/config"
	"github.com/tracklane/task-tracker-api/internal/models"
)

// SeedAdmin creates the bootstrap administrator if no user with the
// configured username exists. Registration is admin-gated, so a fresh
// deployment needs this account to create everyone else.
func SeedAdmin(db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	var existing models.User
	err := db.Where("username = ?", cfg.AdminUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	if cfg.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set to seed the initial admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Email:        cfg.AdminEmail,
		Username:     cfg.AdminUsername,
		Name:         cfg.AdminUsername,
		Surname:      cfg.AdminUsername,
		Patronymic:   cfg.AdminUsername,
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info("seeded initial admin user", zap.String("username", admin.Username))
	return nil
}
