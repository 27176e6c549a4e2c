package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/auth"
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/repository"
)

type testEnv struct {
	db       *gorm.DB
	auth     *AuthService
	users    *UserService
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
}

// newTestEnv opens a named shared-cache in-memory database. A plain
// :memory: DSN gives every pooled connection its own empty database, which
// breaks any test that touches the pool from more than one goroutine.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Comment{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	log := zap.NewNop()
	issuer := auth.NewTokenIssuer("test-secret", 30*time.Minute)

	return testEnv{
		db:       db,
		auth:     NewAuthService(userRepo, issuer, log),
		users:    NewUserService(userRepo),
		projects: NewProjectService(projectRepo, userRepo, log),
		tasks:    NewTaskService(taskRepo, projectRepo),
		comments: NewCommentService(commentRepo, taskRepo, projectRepo),
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string, admin, manager, user bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	u := models.User{
		Email:        username + "@example.com",
		Username:     username,
		Name:         "Test",
		Surname:      "User",
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      admin,
		IsManager:    manager,
		IsUser:       user,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedProject(t *testing.T, env testEnv, creator *models.User, prefix string) *models.Project {
	t.Helper()

	project, err := env.projects.Create(creator, CreateProjectInput{
		Name:   "Project " + prefix,
		Prefix: prefix,
	})
	require.NoError(t, err)
	return project
}
