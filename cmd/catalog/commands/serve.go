package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/internal/event"
	"github.com/fekuna/omnipos-catalog-service/internal/migrations"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/fekuna/omnipos-catalog-service/internal/seed"
	"github.com/fekuna/omnipos-catalog-service/internal/server"
	"github.com/fekuna/omnipos-catalog-service/pkg/broker"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"

	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"
)

var (
	autoMigrate bool
	localesDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(loadConfig())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Apply pending migrations before serving")
	serveCmd.Flags().StringVar(&localesDir, "locales-dir", "", "Directory with active.<lang>.json files overriding the bundled messages")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *config.Config) error {
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	bundle, err := i18n.New()
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	if localesDir != "" {
		for _, lang := range []string{"en", "es"} {
			path := fmt.Sprintf("%s/active.%s.json", localesDir, lang)
			if err := bundle.Load(path); err != nil {
				appLogger.Warn("Failed to load locale override", zap.String("path", path), zap.Error(err))
			}
		}
	}

	if autoMigrate {
		m, err := migrations.New(postgresConfig(cfg).DSN(), appLogger)
		if err != nil {
			return err
		}
		err = m.Up()
		_ = m.Close()
		if err != nil {
			return err
		}
	}

	db, err := connectDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	var locker seed.Locker
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, seeding without a lock", zap.Error(err))
		} else {
			defer redisClient.Close()
			locker = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var publisher event.Publisher = event.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		kafkaPublisher := event.NewKafkaPublisher(producer, appLogger)
		defer func() {
			kafkaPublisher.Wait()
			if err := producer.Close(); err != nil {
				appLogger.Warn("failed to close kafka producer", zap.Error(err))
			}
		}()
		publisher = kafkaPublisher
		appLogger.Info("Publishing catalog events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	if cfg.Seed.OnStart {
		if _, err := runSeed(context.Background(), db, locker, cfg.Seed.File, appLogger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)

	// UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, publisher, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, publisher, appLogger)

	// Handlers
	resp := response.NewResponder(bundle)
	catHandler := catH.NewCategoryHandler(catUC, resp, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, resp, appLogger)

	router := server.NewRouter(server.RouterConfig{
		Development:    cfg.IsDevelopment(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         appLogger,
		Responder:      resp,
		DB:             db,
		Products:       prodHandler,
		Categories:     catHandler,
	})

	httpServer := server.NewHTTPServer(cfg.Server.HTTPPort, router, appLogger)
	errCh := make(chan error, 2)
	go func() {
		errCh <- httpServer.Start()
	}()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	var grpcServer *server.GRPCServer
	if cfg.Server.GRPCPort != "" {
		grpcServer = server.NewGRPCServer(cfg.Server.GRPCPort, appLogger)
		go func() {
			errCh <- grpcServer.Start()
		}()
		go grpcServer.WatchDatabase(watchCtx, db, 15*time.Second)
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		if serveErr != nil {
			appLogger.Error("server stopped unexpectedly", zap.Error(serveErr))
		}
	}

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	stopWatch()
	if grpcServer != nil {
		grpcServer.Stop()
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
	return serveErr
}
