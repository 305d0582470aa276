package di

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yashness/azure-swa-demo/cmd/api/infrastructure"
	ginhandler "github.com/yashness/azure-swa-demo/internal/adapter/gin/handler"
	"github.com/yashness/azure-swa-demo/internal/adapter/repository/gormdb"
	"github.com/yashness/azure-swa-demo/internal/config"
	"github.com/yashness/azure-swa-demo/internal/storage"
	"github.com/yashness/azure-swa-demo/internal/usecase/user"
)

// Container holds all application dependencies. Built once at startup and
// never mutated afterwards; handlers receive their dependencies from here
// instead of reaching for globals.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	StorageOpts *storage.Options
	DB          *gorm.DB
	UserUC      *user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Resolve the storage backend. A malformed connection string aborts
	// startup here; there is no fallback to a different backend.
	opts, err := storage.Resolve(cfg.DB.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage configuration: %w", err)
	}

	db, err := infrastructure.NewDatabase(opts, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := gormdb.NewUserRepo(db, l)
	userUC := user.New(repo, l)
	ginHandler := ginhandler.NewUserHandler(userUC, string(opts.Backend), l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		StorageOpts: opts,
		DB:          db,
		UserUC:      userUC,
		GinHandler:  ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
