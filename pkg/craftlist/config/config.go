package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftlist/craft-list/pkg/craftlist"
	memoryrepo "github.com/craftlist/craft-list/pkg/craftlist/repo/memory"
	postgresrepo "github.com/craftlist/craft-list/pkg/craftlist/repo/postgres"
	fsstorage "github.com/craftlist/craft-list/pkg/craftlist/storage/fs"
	memorystorage "github.com/craftlist/craft-list/pkg/craftlist/storage/memory"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top
// of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		StorageType:  "memory",
		StorageDir:   "./data/uploads",
		URLPrefix:    "/uploads",
	}
}

// ServerConfig represents server configuration for the craftlist service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Banner image storage
	StorageType string // "memory", "fs"
	StorageDir  string
	URLPrefix   string

	// CORS
	AllowedOrigins []string
}

type envConfig struct {
	Port           string `env:"PORT" env-default:"8080"`
	Environment    string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL    string `env:"DATABASE_URL" env-default:""`
	StorageType    string `env:"STORAGE_TYPE" env-default:""`
	StorageDir     string `env:"STORAGE_DIR" env-default:"./data/uploads"`
	URLPrefix      string `env:"URL_PREFIX" env-default:"/uploads"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" env-default:"*"`
}

// WithEnv loads configuration from environment variables. DATABASE_URL
// switches the repository to postgres; STORAGE_TYPE switches banner image
// storage ("memory" or "fs").
func WithEnv() Option {
	return func(cfg *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		cfg.Port = env.Port
		cfg.Environment = env.Environment
		cfg.DatabaseURL = env.DatabaseURL
		if env.DatabaseURL != "" {
			cfg.DatabaseType = "postgres"
		}
		if env.StorageType != "" {
			cfg.StorageType = env.StorageType
		}
		cfg.StorageDir = env.StorageDir
		cfg.URLPrefix = env.URLPrefix
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(env.AllowedOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
		return nil
	}
}

// WithDatabase selects the repository backend explicitly.
func WithDatabase(databaseType, databaseURL string) Option {
	return func(cfg *ServerConfig) error {
		cfg.DatabaseType = databaseType
		cfg.DatabaseURL = databaseURL
		return nil
	}
}

// WithStorage selects the banner image storage backend explicitly.
func WithStorage(storageType, dir, urlPrefix string) Option {
	return func(cfg *ServerConfig) error {
		cfg.StorageType = storageType
		cfg.StorageDir = dir
		cfg.URLPrefix = urlPrefix
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.StorageType != "memory" && c.StorageType != "fs" {
		return errors.New("storage_type must be 'memory' or 'fs'")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (craftlist.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	return craftlist.New(
		craftlist.WithRepository(repo),
		craftlist.WithBlobStore(store),
	)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (craftlist.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memoryrepo.New(), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return postgresrepo.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) buildBlobStore() (craftlist.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.StorageDir,
			URLPrefix: c.URLPrefix,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

// PingPostgres verifies connectivity to Postgres. It is used by the
// server at startup so a bad DATABASE_URL fails fast.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
