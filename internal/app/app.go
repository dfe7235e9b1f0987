package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/internal/model"
	"yamdb/internal/usecase"
	"yamdb/pkg/cache"
	"yamdb/pkg/config"
	"yamdb/pkg/database"
	"yamdb/pkg/jwt"
	"yamdb/pkg/logger"
	"yamdb/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Postgres schemas are owned by `yamdbctl migrate`; a local sqlite file
	// is brought up to date here.
	if cfg.DBDriver == database.DriverSQLite {
		if err := db.AutoMigrate(model.All()...); err != nil {
			log.Error("Failed to migrate sqlite schema: %v", err)
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without rate limiting)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without mail dispatch)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL),
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	gin.SetMode(gin.ReleaseMode)

	var sender usecase.ConfirmationSender
	if a.queueClient != nil {
		sender = a.queueClient
	}

	r, err := NewRouter(Dependencies{
		DB:        a.db,
		JWT:       a.jwtService,
		Redis:     a.redisClient,
		Sender:    sender,
		RateLimit: a.cfg.RateLimitPerMinute,
		AccessLog: true,
		Log:       a.log,
	})
	if err != nil {
		return err
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("YaMDb API starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down YaMDb API...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	a.log.Info("YaMDb API exited")
	return nil
}
