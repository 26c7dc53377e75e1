package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/centerapp/backend/internal/auth"
	"github.com/centerapp/backend/internal/handlers"
	"github.com/centerapp/backend/internal/mailer"
	"github.com/centerapp/backend/internal/middleware"
	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/notify"
	"github.com/centerapp/backend/internal/push"
	"github.com/centerapp/backend/internal/realtime"
	"github.com/centerapp/backend/internal/repositories"
	"github.com/centerapp/backend/internal/storage"
	"github.com/centerapp/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// storyReapInterval is how often expired story documents are reclaimed.
// Visibility never depends on this; listing filters on expires_at.
const storyReapInterval = time.Hour

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, messagingClient *messaging.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
		&models.Employee{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	mongoDB := mgClient.Database(cfg.MongoDatabase)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	publicationRepo := repositories.NewMongoPublicationRepository(mongoDB)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	storyRepo := repositories.NewMongoStoryRepository(mongoDB)
	messageRepo := repositories.NewMongoMessageRepository(mongoDB)
	markerRepo := repositories.NewMongoMarkerRepository(mongoDB)
	employeeRepo := repositories.NewPostgresEmployeeRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Shared infrastructure ---
	verifier := auth.NewVerifier()
	registry := realtime.NewRegistry()
	bus := realtime.NewBus(registry)
	dispatcher := push.NewDispatcher(messagingClient)
	runner := notify.NewRunner(16)
	notifier := notify.NewService(notificationRepo, userRepo, dispatcher, runner)
	mail := mailer.New(cfg.ResendAPIKey, cfg.ResendFrom)
	media, err := storage.NewMediaStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// WebSocket endpoint; auth happens in-band on the socket.
	wsHandler := realtime.NewHandler(registry, verifier)
	wsHandler.RegisterRoutes(e)
	log.Println("WebSocket endpoint configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, verifier)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(verifier))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Publication routes
	publicationHandler := handlers.NewPublicationHandler(publicationRepo, likeRepo, userRepo, bus, notifier, media)
	publicationHandler.RegisterPublicationRoutes(api)
	log.Println("Publication routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, commentLikeRepo, publicationRepo, userRepo, bus, notifier)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Story routes
	storyHandler := handlers.NewStoryHandler(storyRepo, userRepo, bus, notifier, media)
	storyHandler.RegisterStoryRoutes(api)
	log.Println("Story routes configured.")

	// Message routes
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, notifier, mail)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	// Employee routes
	employeeHandler := handlers.NewEmployeeHandler(employeeRepo, userRepo, bus, notifier, mail)
	employeeHandler.RegisterEmployeeRoutes(api)
	log.Println("Employee routes configured.")

	// Marker routes
	markerHandler := handlers.NewMarkerHandler(markerRepo)
	markerHandler.RegisterMarkerRoutes(api)
	log.Println("Marker routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	go reapExpiredStories(storyRepo)
}

// reapExpiredStories periodically deletes story documents past their expiry.
func reapExpiredStories(storyRepo repositories.StoryRepository) {
	ticker := time.NewTicker(storyReapInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := storyRepo.DeleteExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("Reaping expired stories: %v", err)
			continue
		}
		if deleted > 0 {
			log.Printf("Reaped %d expired stories.", deleted)
		}
	}
}
