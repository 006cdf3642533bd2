package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/attendly/attendance-api/internal/config"
	"github.com/attendly/attendance-api/internal/database"
	"github.com/attendly/attendance-api/internal/handlers"
	"github.com/attendly/attendance-api/internal/middleware"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/repository"
	"github.com/attendly/attendance-api/internal/services"
	"github.com/attendly/attendance-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.GinMode)
	log.Info().Msg("Starting attendance API server")

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Database ready")

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	attendanceService := services.NewAttendanceService(attendanceRepo)
	taskService := services.NewTaskService(taskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, log)
	taskHandler := handlers.NewTaskHandler(taskService, log)
	adminHandler := handlers.NewAdminHandler(authService, log)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", handlers.Health)

	requireAuth := middleware.RequireAuth(authService, tokenService)

	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Attendance routes (protected)
		attendance := api.Group("/attendance")
		attendance.Use(requireAuth)
		{
			attendance.POST("/checkin", attendanceHandler.CheckIn)
			attendance.PATCH("/checkout", attendanceHandler.CheckOut)
			attendance.GET("/today", attendanceHandler.Today)
			attendance.GET("", attendanceHandler.History)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Admin routes (protected + admin role)
		admin := api.Group("/admin")
		admin.Use(requireAuth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/active", adminHandler.SetUserActive)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
