package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yashness/azure-swa-demo/internal/config"
	"github.com/yashness/azure-swa-demo/internal/storage"
	"github.com/yashness/azure-swa-demo/pkg/logger"
)

// NewDatabase opens a GORM connection from resolved storage options and
// applies the backend-specific pool configuration. Opening is lazy
// (automatic ping disabled) so a suspended networked backend cannot turn
// boot into a crash; the startup sequence retries connectivity instead.
func NewDatabase(opts *storage.Options, cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.NewGormLoggerWithConfig(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	db, err := gorm.Open(opts.Dialector(), &gorm.Config{
		Logger:               gormLogger,
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	l.Info("database configured",
		zap.String("backend", string(opts.Backend)),
		zap.Int("max_open_conns", opts.MaxOpenConns),
		zap.Int("max_idle_conns", opts.MaxIdleConns),
		zap.Duration("conn_max_lifetime", opts.ConnMaxLifetime),
	)

	// Pre-use liveness check for the networked backend. Failure is not
	// fatal here: the backend may still be waking up, and the startup
	// retry loop owns that problem.
	if opts.Backend == storage.BackendPostgres {
		pingCtx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			l.Warn("database not reachable yet, continuing", zap.Error(err))
		}
	}

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
