package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	anthropicclient "relaybackend/clients/anthropic"
	clerkclient "relaybackend/clients/clerk"
	genaiclient "relaybackend/clients/genai"
	s3client "relaybackend/clients/s3"
	"relaybackend/config"
	"relaybackend/db"
	"relaybackend/handlers"
	"relaybackend/middleware"
	dmlists "relaybackend/services/dmlists"
	messages "relaybackend/services/messages"
	notes "relaybackend/services/notes"
	profiles "relaybackend/services/profiles"
	uploads "relaybackend/services/uploads"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "relaybackend",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize Redis connection
	redisConn, err := db.NewConnection(cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
	if err != nil {
		return err
	}
	defer redisConn.Close()

	// Initialize repositories with shared connection
	dmListsRepo := db.NewRedisDMListsRepository(redisConn)
	messagesRepo := db.NewRedisMessagesRepository(redisConn)

	vectorsRepo, err := db.NewSqliteVectorsRepository(cfg.VectorIndexPath)
	if err != nil {
		return err
	}
	defer vectorsRepo.Close()

	// Initialize external clients
	identityClient := clerkclient.NewClerkClient(cfg.ClerkConfig.SecretKey)
	llmClient := anthropicclient.NewAnthropicClient(cfg.AnthropicConfig.APIKey, cfg.AnthropicConfig.Model)
	embeddingClient, err := genaiclient.NewGenAIClient(
		context.Background(), cfg.GeminiConfig.APIKey, cfg.GeminiConfig.EmbeddingModel)
	if err != nil {
		return err
	}
	blobClient, err := s3client.NewS3Client(s3client.Config{
		Endpoint:  cfg.S3Config.Endpoint,
		Bucket:    cfg.S3Config.Bucket,
		PublicURL: cfg.S3Config.PublicURL,
		Region:    cfg.S3Config.Region,
	})
	if err != nil {
		return err
	}

	// Initialize services
	profilesService := profiles.NewProfilesService(identityClient, profiles.DefaultRetryDelay)
	dmListsService := dmlists.NewDMListsService(dmListsRepo, profilesService)
	notesService := notes.NewNotesService(notes.NewTranscriptCache(), embeddingClient, llmClient, vectorsRepo)
	messagesService := messages.NewMessagesService(
		messagesRepo, dmListsService, profilesService, notesService, llmClient)
	uploadsService := uploads.NewUploadsService(blobClient)

	chatHandler := handlers.NewChatHTTPHandler(dmListsService, messagesService, uploadsService, cfg.AdminToken)
	authMiddleware := middleware.NewClerkAuthMiddleware(profilesService, cfg.ClerkConfig.SecretKey)

	// Create a new router
	router := mux.NewRouter()
	chatHandler.SetupEndpoints(router, authMiddleware)

	// Start periodic store health check so outages surface as alerts
	// instead of only as failed requests
	healthTicker := time.NewTicker(1 * time.Minute)
	go func() {
		for range healthTicker.C {
			_ = alertMiddleware.WrapBackgroundTask("RedisHealthCheck", func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return redisConn.Ping(pingCtx).Err()
			})()
		}
	}()
	defer healthTicker.Stop()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Admin-Token"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: alertMiddleware.HTTPMiddleware(
			middleware.RequestLoggingMiddleware(c.Handler(router))),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server shut down cleanly")
	return nil
}
