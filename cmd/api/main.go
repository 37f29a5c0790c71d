package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/live-redirect-api/internal/config"
	"github.com/live-redirect-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/live-redirect-api/internal/infrastructure/jwt"
	s3infra "github.com/live-redirect-api/internal/infrastructure/s3"
	"github.com/live-redirect-api/internal/infrastructure/sns"
	"github.com/live-redirect-api/internal/infrastructure/websub"
	"github.com/live-redirect-api/internal/infrastructure/youtube"
	transporthttp "github.com/live-redirect-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamo client: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	if cfg.YouTubeAPIKey == "" {
		log.Println("WARN: YOUTUBE_API_KEY is empty; video lookups will be rejected")
	}
	var ytOpts []youtube.ClientOption
	if cfg.YouTubeBaseURL != "" {
		ytOpts = append(ytOpts, youtube.WithBaseURL(cfg.YouTubeBaseURL))
	}
	videos, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, ytOpts...)
	if err != nil {
		log.Fatalf("youtube client: %v", err)
	}

	if cfg.WebSubCallbackURL == "" {
		log.Println("WARN: WEBSUB_CALLBACK_URL is empty; hub subscriptions will fail")
	}

	deps := &transporthttp.Deps{
		NotifyQueueRepo: dynamo.NewNotifyQueueRepo(dynamoClient, cfg.DynamoTables.NotifyQueue),
		LiveCacheRepo:   dynamo.NewLiveCacheRepo(dynamoClient, cfg.DynamoTables.LiveCache),
		Channels:        dynamo.NewChannelRepo(dynamoClient, cfg.DynamoTables.ChannelIndex),
		Videos:          videos,
		Hub:             websub.NewHubClient(cfg.WebSubHubURL, cfg.WebSubCallbackURL, cfg.WebSubSecret, nil),
	}

	// Optional collaborators stay nil interfaces when not configured.
	if cfg.S3ArchiveBucket != "" {
		s3Client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			log.Printf("WARN: S3 archive not available: %v", err)
		} else {
			deps.Archive = s3infra.NewArchive(s3Client, cfg.S3ArchiveBucket)
		}
	}
	if cfg.SNSTopicARN != "" {
		if pub, err := sns.NewPublisher(ctx, cfg); err == nil {
			deps.Notifier = pub
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		deps.JWTProvider = p
	} else {
		log.Printf("WARN: JWT provider not available, admin routes accept only the API key: %v", err)
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	// A forced reconciliation calls the provider in sequence, so writes get more room than reads.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
