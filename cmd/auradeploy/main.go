package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/auradeploy/internal/adapters/database/memory"
	"github.com/SscSPs/auradeploy/internal/adapters/database/mongodb"
	"github.com/SscSPs/auradeploy/internal/adapters/database/pgsql"
	"github.com/SscSPs/auradeploy/internal/adapters/events"
	"github.com/SscSPs/auradeploy/internal/adapters/upstream"
	"github.com/SscSPs/auradeploy/internal/core/ports"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	"github.com/SscSPs/auradeploy/internal/core/services"
	"github.com/SscSPs/auradeploy/internal/handlers"
	"github.com/SscSPs/auradeploy/internal/platform/config"
	"github.com/SscSPs/auradeploy/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	smemory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

// @title AuraDeploy API
// @version 1.0
// @description Account, mock fleet and hosting proxy API for AuraDeploy.

// @host localhost:5000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.DBDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	limiters, closeLimiters := newRateLimiters(ctx, cfg, logger)
	defer closeLimiters()

	publisher := newEventPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	upstreamClient := upstream.NewClient(cfg.MCAPIBase, cfg.MCAPIKey)
	serviceContainer := services.NewServiceContainer(cfg, repos, upstreamClient, publisher)

	reconciler := services.NewServerReconciler(serviceContainer.Server, cfg.TransitionPollInterval, logger)
	reconcilerDone := make(chan struct{})
	go func() {
		defer close(reconcilerDone)
		reconciler.Run(ctx)
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handlers.NewRouter(logger, cfg, serviceContainer, limiters)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("AuraDeploy API server starting",
			slog.String("port", cfg.Port),
			slog.String("environment", cfg.Environment()),
			slog.String("db_driver", cfg.DBDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received. Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown did not complete", slog.String("error", err.Error()))
	}
	<-reconcilerDone
	logger.Info("Process terminated")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openStorage connects the configured database and returns its repositories.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DBDriverMongo:
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			database.CloseMongoClient(client)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("MongoDB connected.", slog.String("database", cfg.MongoDatabase))
		return mongodb.NewRepositoryProvider(db), func() { database.CloseMongoClient(client) }, nil

	case config.DBDriverMemory:
		logger.Warn("Using in-memory storage. Data will not survive a restart.")
		return memory.NewRepositoryProvider(), func() {}, nil

	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			database.ClosePgxPool(dbPool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	}
}

// runMigrations applies every pending "up" migration from ./migrations.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// A temporary database/sql connection through the pgx stdlib driver.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newRateLimiters shares counters through Redis when REDIS_URL is set and
// keeps them in process memory otherwise.
func newRateLimiters(ctx context.Context, cfg *config.Config, logger *slog.Logger) (handlers.RateLimiters, func()) {
	globalRate := limiter.Rate{Period: cfg.RateLimitWindow, Limit: cfg.RateLimitMaxRequests}
	loginRate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		logger.Warn("Invalid LOGIN_RATE_LIMIT. Defaulting to 5-M.", slog.String("value", cfg.LoginRateLimit))
		loginRate = limiter.Rate{Period: time.Minute, Limit: 5}
	}

	globalStore, loginStore := limiter.Store(nil), limiter.Store(nil)
	closeFn := func() {}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable. Falling back to in-memory rate limiting.", slog.String("error", err.Error()))
		} else {
			globalStore, err = newRedisStore(client, "auradeploy_limiter_global")
			if err == nil {
				loginStore, err = newRedisStore(client, "auradeploy_limiter_login")
			}
			if err != nil {
				logger.Warn("Failed to create Redis limiter store. Falling back to memory.", slog.String("error", err.Error()))
				globalStore, loginStore = nil, nil
				_ = client.Close()
			} else {
				logger.Info("Rate limiting backed by Redis.")
				closeFn = func() { _ = client.Close() }
			}
		}
	}
	if globalStore == nil {
		globalStore = smemory.NewStore()
		loginStore = smemory.NewStore()
	}

	return handlers.RateLimiters{
		Global: limiter.New(globalStore, globalRate),
		Login:  limiter.New(loginStore, loginRate),
	}, closeFn
}

func newRedisStore(client *redis.Client, prefix string) (limiter.Store, error) {
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: 3,
	})
}

// newEventPublisher connects to RabbitMQ when AMQP_URL is set.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) ports.ServerEventPublisher {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL)
	if err != nil {
		logger.Warn("RabbitMQ unavailable. Server status events are disabled.", slog.String("error", err.Error()))
		return events.NoopPublisher{}
	}
	logger.Info("Publishing server status events.", slog.String("queue", events.StatusChangedQueue))
	return publisher
}
