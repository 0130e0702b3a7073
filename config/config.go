package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// IsConfigured returns true if all required Redis configuration is present
func (c RedisConfig) IsConfigured() bool {
	return c.Addr != ""
	// Note: Password and DB are optional
}

type ClerkConfig struct {
	SecretKey string
}

// IsConfigured returns true if all required Clerk configuration is present
func (c ClerkConfig) IsConfigured() bool {
	return c.SecretKey != ""
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// IsConfigured returns true if all required Anthropic configuration is present
func (c AnthropicConfig) IsConfigured() bool {
	return c.APIKey != ""
	// Note: Model is optional, the client falls back to its default
}

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
}

// IsConfigured returns true if all required Gemini configuration is present
func (c GeminiConfig) IsConfigured() bool {
	return c.APIKey != ""
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PublicURL string
}

// IsConfigured returns true if all required S3 configuration is present
func (c S3Config) IsConfigured() bool {
	return c.Bucket != "" &&
		c.Region != "" &&
		c.PublicURL != ""
	// Note: Endpoint is optional, used for S3-compatible stores
}

type AppConfig struct {
	// Core configuration (always required)
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	ServerLogsURL      string
	AdminToken         string
	VectorIndexPath    string
	AlertWebhookURL    string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	// Integration configurations (grouped)
	RedisConfig     RedisConfig
	ClerkConfig     ClerkConfig
	AnthropicConfig AnthropicConfig
	GeminiConfig    GeminiConfig
	S3Config        S3Config
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	redisDB, err := strconv.Atoi(getEnvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}

	config := &AppConfig{
		// Core configuration
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		VectorIndexPath:    getEnvWithDefault("VECTOR_INDEX_PATH", "vectors.db"),
		AlertWebhookURL:    os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		// Redis configuration (required for message and DM list storage)
		RedisConfig: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},

		// Clerk configuration (optional)
		ClerkConfig: ClerkConfig{
			SecretKey: os.Getenv("CLERK_SECRET_KEY"),
		},

		// Anthropic configuration (optional)
		AnthropicConfig: AnthropicConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  os.Getenv("ANTHROPIC_MODEL"),
		},

		// Gemini configuration (optional)
		GeminiConfig: GeminiConfig{
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			EmbeddingModel: getEnvWithDefault("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001"),
		},

		// S3 configuration (optional)
		S3Config: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
	}

	// Log which integrations are configured
	if config.RedisConfig.IsConfigured() {
		log.Printf("✅ Redis storage configured")
	} else {
		log.Printf("⚠️ Redis storage not configured")
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}

	if config.ClerkConfig.IsConfigured() {
		log.Printf("✅ Clerk authentication configured")
	} else {
		log.Printf("⚠️ Clerk authentication not configured - profile lookups will use placeholders")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("clerk authentication is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.AnthropicConfig.IsConfigured() {
		log.Printf("✅ Anthropic integration configured")
	} else {
		log.Printf("⚠️ Anthropic integration not configured - bot replies will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("anthropic integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.GeminiConfig.IsConfigured() {
		log.Printf("✅ Gemini embeddings configured")
	} else {
		log.Printf("⚠️ Gemini embeddings not configured - notes retrieval will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("gemini embeddings are not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.S3Config.IsConfigured() {
		log.Printf("✅ S3 blob storage configured")
	} else {
		log.Printf("⚠️ S3 blob storage not configured - file uploads will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("S3 blob storage is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
