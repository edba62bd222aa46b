// Command vacario-cache serves the vacation day and activity caches over HTTP,
// persisted through the key-value store selected by VACARIO_STORE.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/illmade-knight/go-vacario/pkg/kvstore"
	"github.com/illmade-knight/go-vacario/pkg/microservice"
	"github.com/illmade-knight/go-vacario/pkg/vacation"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := microservice.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Cache service failed.")
	}
}

func newLogger(cfg *microservice.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.LogFormat == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Str("service", "vacario-cache").Logger()
}

func run(ctx context.Context, cfg *microservice.Config, logger zerolog.Logger) error {
	store, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	cacheCfg := &vacation.CacheConfig{Capacity: cfg.CacheCapacity}
	days, err := vacation.NewDayCache(cacheCfg, store, logger)
	if err != nil {
		return err
	}
	activities, err := vacation.NewActivityCache(cacheCfg, store, logger)
	if err != nil {
		return err
	}

	svc, err := microservice.NewCacheService(cfg, store, days, activities, logger)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info().Msg("Shutdown signal received.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return svc.Shutdown(shutdownCtx)
}

// newStore builds the configured key-value store. The returned cleanup closes
// the store and any client it owns.
func newStore(ctx context.Context, cfg *microservice.Config, logger zerolog.Logger) (kvstore.Store, func(), error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	switch cfg.Store {
	case "memory":
		store := kvstore.NewInMemoryStore()
		return store, func() { _ = store.Close() }, nil

	case "sqlite":
		store, err := kvstore.NewSQLiteStore(ctx, &kvstore.SQLiteConfig{Path: cfg.SQLitePath}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "redis":
		store, err := kvstore.NewRedisStore(ctx, &kvstore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.RedisTTL,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		store, err := kvstore.NewFirestoreStore(&kvstore.FirestoreConfig{
			ProjectID:      cfg.ProjectID,
			CollectionName: cfg.FirestoreCollection,
		}, client, logger)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil

	case "gcs":
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		store, err := kvstore.NewGCSStore(kvstore.NewGCSClientAdapter(client), kvstore.GCSConfig{
			BucketName:   cfg.GCSBucket,
			ObjectPrefix: cfg.GCSPrefix,
		}, logger)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
