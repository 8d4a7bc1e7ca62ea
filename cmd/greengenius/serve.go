package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/auth"
	"github.com/greengenius/greengenius/internal/config"
	"github.com/greengenius/greengenius/internal/router"
	"github.com/greengenius/greengenius/internal/scheduler"
	"github.com/greengenius/greengenius/internal/sensors"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and sensor scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()

	if err != nil {
		return err
	}

	defer logger.Sync()

	logEnvironment(cfg)

	if err := db.MigrateDatabase(); err != nil {
		return err
	}

	if err := auth.InitJWTSecret(cfg.Auth.JWTSecret); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	images := services.NewImageStore(nil, cfg.Storage.PublicAssetURL)

	if cfg.Storage.Bucket != "" {
		storage, err := services.NewS3Storage(ctx, cfg.Storage.Bucket, cfg.Storage.Region)

		if err != nil {
			return err
		}

		images = services.NewImageStore(storage, cfg.Storage.PublicAssetURL)
	}

	publisher := services.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	source := sensors.New(cfg.Sensors.SourceURL)

	identifier := services.NewIdentificationService(
		services.NewPlantIDClient(cfg.PlantID.APIKey, cfg.PlantID.URL),
		services.NewTrefleClient(cfg.Trefle.Token, cfg.Trefle.BaseURL),
	)

	if err := scheduler.Initialize(scheduler.Options{
		Source:        source,
		Publisher:     publisher,
		Interval:      cfg.Sensors.PollInterval,
		RecordHistory: cfg.Sensors.RecordHistory,
	}); err != nil {
		return err
	}
	defer scheduler.Shutdown()

	types.AllowedOrigins = append(types.AllowedOrigins, cfg.AllowedOrigins...)

	r := router.NewRouter(router.Dependencies{
		Identifier:   identifier,
		Images:       images,
		Publisher:    publisher,
		Sensors:      source,
		CookieDomain: cfg.Auth.CookieDomain,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		zap.L().Info("Server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		zap.L().Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}

// logEnvironment reports which integrations are configured without
// printing secrets in full.
func logEnvironment(cfg *config.Config) {
	zap.L().Info("Environment check",
		zap.String("plant_id_api_key", maskedOrMissing(cfg.PlantID.APIKey)),
		zap.String("trefle_api_token", maskedOrMissing(cfg.Trefle.Token)),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("s3_enabled", cfg.Storage.Bucket != ""),
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.Bool("simulated_sensors", cfg.Sensors.SourceURL == ""),
		zap.Duration("sensor_poll_interval", cfg.Sensors.PollInterval),
	)

	if cfg.PlantID.APIKey == "" {
		zap.L().Warn("PLANT_ID_API_KEY is not set; identification will fail")
	}

	if cfg.Trefle.Token == "" {
		zap.L().Warn("TREFLE_API_TOKEN is not set; identification falls back to basic details")
	}
}

func maskedOrMissing(secret string) string {
	if secret == "" {
		return "missing"
	}

	return config.MaskSecret(secret)
}
