package handlers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tracklane/task-tracker-api/internal/auth"
	"github.com/tracklane/task-tracker-api/internal/constants"
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/repository"
	"github.com/tracklane/task-tracker-api/internal/services"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	db       *gorm.DB
	issuer   *auth.TokenIssuer
	userRepo repository.UserRepository

	authHandler    *AuthHandler
	userHandler    *UserHandler
	projectHandler *ProjectHandler
	taskHandler    *TaskHandler
	commentHandler *CommentHandler

	projectService *services.ProjectService
	taskService    *services.TaskService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

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
	issuer := auth.NewTokenIssuer(testSecret, 30*time.Minute)

	authService := services.NewAuthService(userRepo, issuer, log)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, log)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo, projectRepo)

	return testEnv{
		db:             db,
		issuer:         issuer,
		userRepo:       userRepo,
		authHandler:    NewAuthHandler(authService, 1800),
		userHandler:    NewUserHandler(userService),
		projectHandler: NewProjectHandler(projectService),
		taskHandler:    NewTaskHandler(taskService),
		commentHandler: NewCommentHandler(commentService),
		projectService: projectService,
		taskService:    taskService,
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

// asActor injects an already-resolved actor, standing in for RequireAuth in
// tests that are not about authentication itself.
func asActor(actor *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, actor.ID)
		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}
