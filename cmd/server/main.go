package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tracklane/task-tracker-api/internal/auth"
	"github.com/tracklane/task-tracker-api/internal/config"
	"github.com/tracklane/task-tracker-api/internal/database"
	"github.com/tracklane/task-tracker-api/internal/handlers"
	"github.com/tracklane/task-tracker-api/internal/logger"
	"github.com/tracklane/task-tracker-api/internal/middleware"
	"github.com/tracklane/task-tracker-api/internal/repository"
	"github.com/tracklane/task-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := logger.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed the initial admin account when missing
	if err := database.SeedAdmin(db, cfg, logger); err != nil {
		logger.Fatal("failed to seed admin user", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, issuer, logger)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, logger)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo, projectRepo)

	// Handlers
	cookieMaxAge := int(cfg.TokenTTL.Seconds())
	authHandler := handlers.NewAuthHandler(authService, cookieMaxAge)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.Metrics())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth([]byte(cfg.JWTSecret), userRepo)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
			authRoutes.POST("/register", requireAuth, authHandler.Register)
			authRoutes.PUT("/me/password", requireAuth, userHandler.ChangePassword)
		}

		// User administration routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.PATCH("/:id", userHandler.UpdateUser)
			users.POST("/:id/deactivate", userHandler.DeactivateUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/deactivate", projectHandler.DeactivateProject)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.POST("/:id/members/:user_id", projectHandler.AddMember)
			projects.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)
			projects.GET("/:id/tasks", taskHandler.ListProjectTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/comments", commentHandler.CreateComment)
			tasks.GET("/:id/comments", commentHandler.ListComments)
		}

		// Ticket key routes (protected). Separate root so the prefix
		// segment does not collide with the numeric :id wildcard.
		tickets := api.Group("/tickets")
		tickets.Use(requireAuth)
		{
			tickets.GET("/:prefix", taskHandler.ListTasksByPrefix)
			tickets.GET("/:prefix/:local_id", taskHandler.GetTaskByKey)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
