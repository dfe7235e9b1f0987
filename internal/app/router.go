package app

import (
	"fmt"
	"net/http"
	"time"

	httpController "yamdb/internal/controller/http"
	"yamdb/internal/repo/persistent"
	"yamdb/internal/usecase"
	"yamdb/internal/validation"
	"yamdb/pkg/database"
	"yamdb/pkg/jwt"
	"yamdb/pkg/logger"
	"yamdb/pkg/metrics"
	"yamdb/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "yamdb/docs" // Swagger docs
)

// Dependencies is everything the router needs. Redis and Sender are optional.
type Dependencies struct {
	DB        *gorm.DB
	JWT       *jwt.Service
	Redis     *redis.Client
	Sender    usecase.ConfirmationSender
	NewCode   usecase.CodeGenerator
	Now       func() time.Time
	RateLimit int
	AccessLog bool
	Log       *logger.Logger
}

func NewRouter(deps Dependencies) (*gin.Engine, error) {
	sqlxDB, err := database.NewSQLX(deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open read model: %w", err)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RateLimit <= 0 {
		deps.RateLimit = 100
	}

	validator := validation.New(deps.Now)

	// Initialize repositories
	userRepo := persistent.NewUserRepository(deps.DB)
	catalogRepo := persistent.NewCatalogRepository(deps.DB)
	titleRepo := persistent.NewTitleRepository(deps.DB)
	titleQuery := persistent.NewTitleQuery(sqlxDB)
	reviewRepo := persistent.NewReviewRepository(deps.DB)

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(userRepo, deps.JWT, deps.Sender, validator, deps.NewCode, deps.Log)
	userUseCase := usecase.NewUserUseCase(userRepo, validator, deps.Log)
	catalogUseCase := usecase.NewCatalogUseCase(catalogRepo, validator, deps.Log)
	titleUseCase := usecase.NewTitleUseCase(titleRepo, titleQuery, catalogRepo, validator, deps.Log)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, titleRepo, validator, deps.Log)

	// Initialize HTTP handlers
	authHandler := httpController.NewAuthHandler(authUseCase, deps.Log)
	userHandler := httpController.NewUserHandler(userUseCase, deps.Log)
	catalogHandler := httpController.NewCatalogHandler(catalogUseCase, userUseCase, deps.Log)
	titleHandler := httpController.NewTitleHandler(titleUseCase, userUseCase, deps.Log)
	reviewHandler := httpController.NewReviewHandler(reviewUseCase, userUseCase, deps.Log)

	metrics.MustRegister()

	r := gin.New()
	r.Use(gin.Recovery())
	if deps.AccessLog {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit := middleware.RateLimitMiddleware(deps.Redis, deps.RateLimit, time.Minute)

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(deps.JWT))
	api.Use(writesOnly(limit))

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/token", authHandler.Token)
	}

	{
		api.GET("/users", userHandler.ListUsers)
		api.POST("/users", userHandler.CreateUser)
		api.GET("/users/me", userHandler.Me)
		api.PATCH("/users/me", userHandler.UpdateMe)
		api.GET("/users/:username", userHandler.GetUser)
		api.PATCH("/users/:username", userHandler.UpdateUser)
		api.DELETE("/users/:username", userHandler.DeleteUser)
	}

	{
		api.GET("/categories", catalogHandler.ListCategories)
		api.POST("/categories", catalogHandler.CreateCategory)
		api.DELETE("/categories/:slug", catalogHandler.DeleteCategory)
		api.GET("/genres", catalogHandler.ListGenres)
		api.POST("/genres", catalogHandler.CreateGenre)
		api.DELETE("/genres/:slug", catalogHandler.DeleteGenre)
	}

	{
		api.GET("/titles", titleHandler.ListTitles)
		api.POST("/titles", titleHandler.CreateTitle)
		api.GET("/titles/:title_id", titleHandler.GetTitle)
		api.PATCH("/titles/:title_id", titleHandler.UpdateTitle)
		api.DELETE("/titles/:title_id", titleHandler.DeleteTitle)
	}

	reviews := api.Group("/titles/:title_id/reviews")
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("/:review_id", reviewHandler.GetReview)
		reviews.PATCH("/:review_id", reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", reviewHandler.DeleteReview)

		reviews.GET("/:review_id/comments", reviewHandler.ListComments)
		reviews.POST("/:review_id/comments", reviewHandler.CreateComment)
		reviews.GET("/:review_id/comments/:comment_id", reviewHandler.GetComment)
		reviews.PATCH("/:review_id/comments/:comment_id", reviewHandler.UpdateComment)
		reviews.DELETE("/:review_id/comments/:comment_id", reviewHandler.DeleteComment)
	}

	return r, nil
}

// writesOnly applies mw to state-changing requests.
func writesOnly(mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			mw(c)
		}
	}
}
