package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"contactbook/internal/config"
	"contactbook/internal/handlers"
	"contactbook/internal/mailer"
	"contactbook/internal/middleware"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
	"contactbook/pkg/queue"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// --- Connect to MongoDB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	log.Println("MongoDB connected successfully")
	db := mongoClient.Database("contactbook")

	// --- Initialize RabbitMQ client ---
	mqClient, err := queue.NewClient(queue.Config{URL: cfg.RabbitURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	// --- Initialize repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	contactRepo := repositories.NewMongoContactRepository(db)

	// --- Build the Fiber app ---
	app := buildApp(cfg, userRepo, contactRepo, mqClient)

	// --- Start the email consumer ---
	m := mailer.New(mailer.Config{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		User:       cfg.SMTPUser,
		Password:   cfg.SMTPPass,
		SenderAddr: cfg.SenderAddr,
		BaseURL:    cfg.BaseURL,
	})
	if err := mqClient.ConsumeEmailEvents(m.HandleEmailMessage); err != nil {
		log.Printf("Failed to start email consumer: %v", err)
	}

	// --- Start HTTP server ---
	log.Printf("Server is running. Use our API on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer disconnectCancel()
	if err := mongoClient.Disconnect(disconnectCtx); err != nil {
		log.Printf("Error during MongoDB disconnect: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// buildApp wires services, handlers and routes into a Fiber app. It is
// separate from main so tests can assemble the app against in-memory
// repositories.
func buildApp(cfg config.Config, userRepo repositories.UserRepository, contactRepo repositories.ContactRepository, publisher services.EmailPublisher) *fiber.App {
	authService := services.NewAuthService(userRepo, publisher, cfg.JWTSecret, cfg.AvatarDir)
	contactService := services.NewContactService(contactRepo)

	authHandler := handlers.NewAuthHandler(authService, cfg.TmpDir)
	contactHandler := handlers.NewContactHandler(contactService)

	app := fiber.New()
	app.Use(logger.New())

	// Resized avatars are served straight from the public directory.
	app.Static("/avatars", cfg.AvatarDir)

	guard := middleware.AuthRequired(authService)

	api := app.Group("/api")
	authHandler.RegisterRoutes(api, guard)
	contactHandler.RegisterRoutes(api, guard)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}
