package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ab3d1/moneygrid/internal/dependencies/clock"
	"github.com/ab3d1/moneygrid/internal/dependencies/random"
	"github.com/ab3d1/moneygrid/internal/services/admin"
	"github.com/ab3d1/moneygrid/internal/services/allocator"
	"github.com/ab3d1/moneygrid/internal/services/fortune"
	"github.com/ab3d1/moneygrid/internal/services/roster"
	"github.com/ab3d1/moneygrid/internal/storage"
	"github.com/ab3d1/moneygrid/internal/storage/memory"
	redisstorage "github.com/ab3d1/moneygrid/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	FortuneService   *fortune.Service
	AllocatorService *allocator.Service
	RosterService    *roster.Service
	AdminService     *admin.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AdminConfig holds the admin secret and session settings (optional)
	// A zero value disables admin login
	AdminConfig admin.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.AdminConfig, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, adminCfg admin.Config, logger *slog.Logger) (*App, error) {
	fortuneService := fortune.New(rnd)
	allocatorService := allocator.New(store, fortuneService, clk, rnd, logger)
	rosterService := roster.New(store, clk, logger)

	adminService, err := admin.New(store, clk, adminCfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		FortuneService:   fortuneService,
		AllocatorService: allocatorService,
		RosterService:    rosterService,
		AdminService:     adminService,
	}, nil
}
