package setup

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robalyx/leo/internal/database"
	"github.com/robalyx/leo/internal/database/migrations"
	"github.com/robalyx/leo/internal/monitor"
	"github.com/robalyx/leo/internal/redis"
	"github.com/robalyx/leo/internal/setup/config"
	"github.com/robalyx/leo/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// ErrMigrationsPending is returned when the operator declines to run pending migrations.
var ErrMigrationsPending = errors.New("database migrations are pending")

// Version is reported with traces. It is overridden at build time.
var Version = "dev"

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	DBLogger     *zap.Logger        // Database-specific logger
	DB           database.Client    // Database connection pool
	RedisManager *redis.Manager     // Redis connection manager
	LogManager   *telemetry.Manager // Log management system
	monitor      *monitor.Server    // Metrics and health endpoints
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, configPath, componentName, logDir string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(componentName, logDir, &cfg.Debug)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	logManager.StartTracing(&cfg.Telemetry, Version)

	// Redis manager provides connection pools for the caches
	redisManager := redis.NewManager(&cfg.Redis, logger)

	db, err := checkAndRunMigrations(ctx, &cfg.PostgreSQL, dbLogger)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	var monitorServer *monitor.Server
	if cfg.Telemetry.MetricsAddr != "" {
		monitorServer = monitor.NewServer(cfg.Telemetry.MetricsAddr, db.DB(), logger)
		monitorServer.Start()
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		LogManager:   logManager,
		monitor:      monitorServer,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	if s.monitor != nil {
		if err := s.monitor.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown monitoring server", zap.Error(err))
		}
	}

	// Flush pending spans before the loggers go away
	if err := s.LogManager.Stop(ctx); err != nil {
		s.Logger.Error("Failed to flush traces", zap.Error(err))
	}

	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}

// checkAndRunMigrations asks before applying pending migrations.
func checkAndRunMigrations(ctx context.Context, cfg *config.PostgreSQL, dbLogger *zap.Logger) (database.Client, error) {
	tempDB, err := database.NewConnection(ctx, cfg, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(tempDB.DB(), migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	if len(ms.Unapplied()) == 0 {
		return tempDB, nil
	}

	log.Println("Database migrations are pending. Would you like to run them now? (y/N)")

	var response string

	_, _ = fmt.Scanln(&response)

	if response != "y" && response != "Y" {
		tempDB.Close()
		return nil, ErrMigrationsPending
	}

	if err := database.Migrate(ctx, tempDB.DB(), dbLogger); err != nil {
		tempDB.Close()
		return nil, err
	}

	return tempDB, nil
}
