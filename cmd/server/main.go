package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat_app/internal/config"
	"chat_app/internal/handler"
	"chat_app/internal/middleware"
	"chat_app/internal/repository"
	"chat_app/internal/service"
	"chat_app/internal/ws"
	"chat_app/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger := logger.New(cfg.Log.Level)

	// Подключение к PostgreSQL
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	// Подключение к Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	// Реестр соединений и диспетчер рассылки
	hub := ws.NewHub(appLogger)
	go hub.Run()

	// Инициализация репозиториев
	repos := repository.NewRepositories(dbPool, rdb, appLogger)

	// Инициализация сервисов
	services, err := service.NewServices(repos, hub, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to init services", "error", err)
	}

	// Инициализация middleware
	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	// Инициализация handlers
	handlers := handler.NewHandlers(services, hub, cfg, appLogger)

	// Настройка роутера
	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	if err := hub.Shutdown(5 * time.Second); err != nil {
		appLogger.Warn("Hub shutdown timed out", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())
	router.MaxMultipartMemory = cfg.Upload.MaxFileSize

	// Health check
	router.GET("/health", handlers.Health.Check)

	// Статика загрузок
	router.Static("/uploads/messages", cfg.Upload.MessagesDir)
	router.Static("/uploads/avatars", cfg.Upload.AvatarsDir)

	api := router.Group("/api")
	{
		// Публичные endpoints
		public := api.Group("/auth")
		{
			public.POST("/register", rateLimitMiddleware.Limit(20, 60), handlers.Auth.Register)
			public.POST("/login", rateLimitMiddleware.Limit(20, 60), handlers.Auth.Login)
		}

		// Защищенные endpoints
		protected := api.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.GET("/auth/profile", handlers.Auth.Profile)

			users := protected.Group("/users")
			{
				users.GET("/me", handlers.User.GetMe)
				users.POST("/avatar", handlers.User.UpdateAvatar)
			}

			messages := protected.Group("/messages")
			{
				messages.GET("", handlers.Message.GetMessages)
				messages.POST("", rateLimitMiddleware.Limit(60, 60), handlers.Message.SendMessage)
				messages.POST("/upload", rateLimitMiddleware.Limit(20, 60), handlers.Message.UploadMessageFile)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", handlers.Admin.ListUsers)
				admin.GET("/stats", handlers.Admin.GetStats)
			}
		}
	}

	// WebSocket endpoint (токен в query, аутентификация до апгрейда)
	router.GET("/ws", handlers.WebSocket.Handle)

	return router
}
