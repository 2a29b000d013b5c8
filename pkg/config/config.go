package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	JWTAccessExpiry    time.Duration
	JWTRefreshExpiry   time.Duration
	EncryptionKey      string
	GoogleClientID     string
	GoogleClientSecret string

	// AI providers
	AIProvider   string
	OpenAIAPIKey string
	GeminiAPIKey string

	// Chroma vector index
	ChromaAPIKey     string
	ChromaTenant     string
	ChromaDatabase   string
	ChromaCollection string

	// Ingestion pipeline
	EmbedMaxChars    int
	MetadataMaxChars int
	IngestBatchSize  int
	IngestWorkers    int

	// Gmail push notifications
	GoogleProjectID    string
	GoogleCredentials  string
	PubSubTopic        string
	PubSubSubscription string

	// Subscription tracking sheet (optional)
	SubscriptionSheetID string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=mailrag port=5432 sslmode=disable"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:    accessExpiry,
		JWTRefreshExpiry:   refreshExpiry,
		EncryptionKey:      getEnv("ENCRYPTION_KEY", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		AIProvider:   getEnv("AI_PROVIDER", "auto"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		ChromaAPIKey:     getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:     getEnv("CHROMA_TENANT", ""),
		ChromaDatabase:   getEnv("CHROMA_DATABASE", ""),
		ChromaCollection: getEnv("CHROMA_COLLECTION", "emails"),

		EmbedMaxChars:    getEnvInt("EMBED_MAX_CHARS", 8000),
		MetadataMaxChars: getEnvInt("METADATA_MAX_CHARS", 1000),
		IngestBatchSize:  getEnvInt("INGEST_BATCH_SIZE", 100),
		IngestWorkers:    getEnvInt("INGEST_WORKERS", 5),

		GoogleProjectID:    getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleCredentials:  getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		PubSubTopic:        getEnv("PUBSUB_TOPIC", "gmail-updates"),
		PubSubSubscription: getEnv("PUBSUB_SUBSCRIPTION", "gmail-updates-sub"),

		SubscriptionSheetID: getEnv("SUBSCRIPTION_SHEET_ID", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
