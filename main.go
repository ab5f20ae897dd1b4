package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/services"
	"github.com/weddingbook/marketplace-api/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("marketplace-api: %v", err)
	}
}

func run() error {
	var port string
	var migrateOnly bool

	flagSet := pflag.NewFlagSet("marketplace-api", pflag.ContinueOnError)
	flagSet.StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
	flagSet.BoolVar(&migrateOnly, "migrate-only", false, "run database migrations and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	log.Println("Starting Wedding Marketplace API server...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port != "" {
		cfg.Port = port
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		return err
	}
	if err := models.AutoMigrate(config.GetDB()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("Database migration completed successfully")

	if migrateOnly {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initImageStorage(ctx, cfg); err != nil {
		return err
	}

	publisher := initEventPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("Failed to close event publisher: %v", err)
		}
	}()

	// Rate limiting fails open, so a missing Redis only costs the limiter
	limiter, err := config.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	}
	if limiter != nil {
		defer limiter.Close()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(cfg, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}

// initImageStorage uses S3 when a bucket is configured, local disk otherwise
func initImageStorage(ctx context.Context, cfg *config.Config) error {
	if cfg.UsesS3() {
		s3Service, err := services.InitS3Service(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize S3: %w", err)
		}
		services.InitImageService(s3Service)
		log.Printf("Storing package images in S3 bucket %s", cfg.AWSS3Bucket)
		return nil
	}

	utils.UploadDir = cfg.UploadDir
	services.InitLocalImageService(cfg.UploadDir)
	log.Printf("Storing package images under %s", cfg.UploadDir)
	return nil
}

// initEventPublisher connects to RabbitMQ when configured. Booking events are best effort,
// so a broker that cannot be reached is logged and replaced by a no-op publisher.
func initEventPublisher(cfg *config.Config) services.EventPublisher {
	if cfg.RabbitMQURL == "" {
		log.Println("RABBITMQ_URL not set, booking events disabled")
		services.SetEventPublisher(services.NoopPublisher{})
		return services.NoopPublisher{}
	}

	publisher, err := services.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ, booking events disabled: %v", err)
		services.SetEventPublisher(services.NoopPublisher{})
		return services.NoopPublisher{}
	}

	services.SetEventPublisher(publisher)
	log.Printf("Publishing booking events to queue %s", cfg.EventsQueue)
	return publisher
}
