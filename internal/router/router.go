package router

import (
	"context"
	"log"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/unilink-app/unilink/backend/internal/auth"
	"github.com/unilink-app/unilink/backend/internal/cache"
	"github.com/unilink-app/unilink/backend/internal/campus"
	"github.com/unilink-app/unilink/backend/internal/chat"
	"github.com/unilink-app/unilink/backend/internal/friends"
	"github.com/unilink-app/unilink/backend/internal/handlers"
	"github.com/unilink-app/unilink/backend/internal/middleware"
	"github.com/unilink-app/unilink/backend/internal/models"
	"github.com/unilink-app/unilink/backend/internal/realtime"
	"github.com/unilink-app/unilink/backend/internal/repositories"
	"github.com/unilink-app/unilink/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, firebaseAuthClient *fbauth.Client) {
	// AutoMigrate PostgreSQL models
	err := db.Postgres.AutoMigrate(
		&models.SectorCheckin{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := db.Mongo.Database(cfg.MongoDBName)
	userRepo := repositories.NewMongoUserRepository(mongoDB)
	roomRepo := repositories.NewMongoRoomRepository(mongoDB)
	messageRepo := repositories.NewMongoMessageRepository(mongoDB)
	friendshipRepo := repositories.NewMongoFriendshipRepository(mongoDB)
	checkinRepo := repositories.NewPostgresCheckinRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure user indexes: %v", err)
	}
	if err := roomRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure room indexes: %v", err)
	}
	if _, err := roomRepo.FindOrCreateGlobal(ctx); err != nil {
		log.Fatalf("Failed to ensure the global room: %v", err)
	}
	log.Println("MongoDB indexes and global room ensured.")

	// --- Services ---
	verifier := auth.NewVerifier(cfg.JWTSecret, 72*time.Hour)
	hub := realtime.NewHub(realtime.NewRegistry(), roomRepo)
	chatService := chat.NewService(roomRepo, messageRepo, userRepo, hub)
	friendService := friends.NewService(userRepo, friendshipRepo, notificationRepo, hub)
	campusService := campus.NewService(
		campus.NewHTTPMenuProvider(cfg.MenuFeedURL),
		campus.NewHTTPBusProvider(cfg.BusFeedURL),
		cache.New(db.Redis, "campus:", 6*time.Hour),
	)

	// --- Realtime endpoint (token-authenticated handshake) ---
	e.GET("/ws", hub.ServeWS(verifier))
	log.Println("Websocket endpoint configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, verifier, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(verifier))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Message routes
	messageHandler := handlers.NewMessageHandler(chatService)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendService)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Sector check-in routes
	checkinHandler := handlers.NewCheckinHandler(checkinRepo)
	checkinHandler.RegisterCheckinRoutes(api)
	log.Println("Sector check-in routes configured.")

	// Campus feed routes
	campusHandler := handlers.NewCampusHandler(campusService)
	campusHandler.RegisterCampusRoutes(api)
	log.Println("Campus feed routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
