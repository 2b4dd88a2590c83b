package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/inkwellhq/engagement/internal/cache"
	"github.com/inkwellhq/engagement/internal/engagement"
	"github.com/inkwellhq/engagement/internal/gamification"
	"github.com/inkwellhq/engagement/internal/handlers"
	"github.com/inkwellhq/engagement/internal/middleware"
	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/notifications"
	"github.com/inkwellhq/engagement/internal/repositories"
	"github.com/inkwellhq/engagement/pkg/config"
	"github.com/inkwellhq/engagement/pkg/logger"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.RateLimitMiddleware(120))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, rdb *redis.Client, firebaseAuthClient *auth.Client) error {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.Notification{},
	); err != nil {
		return err
	}
	logger.S.Info("PostgreSQL auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	mongoDB := mgClient.Database(cfg.MongoDatabase)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	engagementRepo := repositories.NewMongoEngagementRepository(mgClient, mongoDB)
	reactionRepo := repositories.NewMongoReactionRepository(mgClient, mongoDB)
	moderationRepo := repositories.NewMongoModerationRepository(mongoDB)

	// --- Caches ---
	engagementCache := cache.NewEngagementCache(rdb, engagementRepo)
	leaderboardCache := cache.NewLeaderboardCache(rdb, engagementRepo, userRepo)

	// --- Core components ---
	ledger := gamification.NewPointsLedger(engagementRepo)
	tracker := gamification.NewChallengeTracker(engagementRepo)
	dispatcher := notifications.NewDispatcher(notificationRepo, userRepo)
	orchestrator := engagement.NewOrchestrator(
		reactionRepo, engagementRepo, moderationRepo, userRepo,
		ledger, tracker, dispatcher, logger.S,
	)

	// --- Unprotected routes for profile registration ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
		logger.S.Info("Firebase authentication middleware applied to /api/v1 group")
	} else {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		logger.S.Info("JWT authentication middleware applied to /api/v1 group")
	}

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)

	engagementHandler := handlers.NewEngagementHandler(orchestrator, engagementCache, reactionRepo)
	engagementHandler.RegisterEngagementRoutes(api)

	gamificationHandler := handlers.NewGamificationHandler(engagementCache, leaderboardCache, tracker)
	gamificationHandler.RegisterGamificationRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(dispatcher)
	notificationHandler.RegisterNotificationRoutes(api)

	moderationHandler := handlers.NewModerationHandler(moderationRepo, dispatcher)
	moderationHandler.RegisterModerationRoutes(api)

	logger.S.Info("all routes configured")
	return nil
}
