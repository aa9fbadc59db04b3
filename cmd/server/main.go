package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jobboard/internal/config"
	"jobboard/internal/events"
	apphttp "jobboard/internal/http"
	"jobboard/internal/logging"
	"jobboard/internal/repository/sqlite"
	"jobboard/internal/service"
	"jobboard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	adminRepo := sqlite.NewAdminRepository(db)
	listingRepo := sqlite.NewListingRepository(db)

	if err := adminRepo.Init(ctx); err != nil {
		logger.Fatalf("init admin repository: %v", err)
	}
	if err := listingRepo.Init(ctx); err != nil {
		logger.Fatalf("init listing repository: %v", err)
	}

	publisher, err := buildPublisher(cfg, logger)
	if err != nil {
		logger.Fatalf("setup event publisher: %v", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warnf("close event publisher: %v", err)
		}
	}()

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(adminRepo, tokens, service.AuthOptions{
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	listingService := service.NewListingService(listingRepo, service.ListingOptions{
		DefaultPageSize: cfg.Listings.DefaultPageSize,
		MaxPageSize:     cfg.Listings.MaxPageSize,
		Publisher:       publisher,
		Logger:          logger,
	})
	exportService := service.NewExportService(listingService, storageSvc, service.ExportOptions{
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
		Logger:    logger,
	})

	if cfg.BootstrapEnabled() {
		admin, created, err := authService.EnsureBootstrapAdmin(ctx, service.RegisterInput{
			Username: cfg.Auth.Bootstrap.Username,
			Password: cfg.Auth.Bootstrap.Password,
			Email:    cfg.Auth.Bootstrap.Email,
			Name:     cfg.Auth.Bootstrap.Name,
		})
		if err != nil {
			logger.Fatalf("bootstrap admin: %v", err)
		}
		if created {
			logger.WithField("username", admin.Username).Info("bootstrap super admin created")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	handler := apphttp.NewHandler(authService, listingService, exportService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildPublisher(cfg config.Config, logger *logrus.Logger) (events.Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka brokers not configured, listing events disabled")
		return events.NopPublisher{}, nil
	}
	publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, err
	}
	logger.Infof("publishing listing events to kafka topic %s", cfg.Kafka.Topic)
	return publisher, nil
}

// buildStorage returns a nil service when no bucket is configured; snapshots are then disabled.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not configured, export snapshots disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
