package main

import (
	"context"
	"log"
	"strings"

	api "mailrag-backend/cmd/api"
	authdomain "mailrag-backend/internal/auth/domain"
	authRepo "mailrag-backend/internal/auth/repository"
	authUsecase "mailrag-backend/internal/auth/usecase"
	maildomain "mailrag-backend/internal/mail/domain"
	mailRepo "mailrag-backend/internal/mail/repository"
	mailUsecase "mailrag-backend/internal/mail/usecase"
	"mailrag-backend/internal/notification"
	"mailrag-backend/pkg/ai"
	"mailrag-backend/pkg/chroma"
	"mailrag-backend/pkg/config"
	"mailrag-backend/pkg/database"
	"mailrag-backend/pkg/gmail"
	"mailrag-backend/pkg/imap"
	"mailrag-backend/pkg/sheets"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &maildomain.IngestRun{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	runRepo := mailRepo.NewIngestRunRepository(db)

	// Initialize mail providers
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	imapService := imap.NewService()

	// Initialize Google Sheets service for subscription tracking
	sheetsService := sheets.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// Initialize AI service (embeddings + completions)
	aiService, err := ai.NewService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		EmbedMaxChars: cfg.EmbedMaxChars,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI service:", err)
	}
	log.Printf("AI service initialized with provider: %s", cfg.AIProvider)

	// Initialize Chroma client for the vector index
	chromaClient, err := chroma.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Chroma client:", err)
	}
	log.Println("Chroma client initialized successfully")

	// Extract short topic name from full resource name if necessary
	topicName := cfg.PubSubTopic
	if parts := strings.Split(topicName, "/"); len(parts) > 1 {
		topicName = parts[len(parts)-1]
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	mailUsecaseInstance := mailUsecase.NewMailUsecase(
		userRepo,
		runRepo,
		gmailService,
		imapService,
		aiService,
		chromaClient,
		sheetsService,
		cfg,
		topicName,
	)

	// Initialize Notification Service (Pub/Sub)
	// Only start if project ID is configured
	if cfg.GoogleProjectID != "" {
		notifService, err := notification.NewService(cfg.GoogleProjectID, topicName, cfg.PubSubSubscription, mailUsecaseInstance, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("Failed to initialize notification service: %v", err)
		} else {
			go notifService.Start(context.Background())
		}
	} else {
		log.Println("GOOGLE_PROJECT_ID not configured, notification service disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, mailUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
