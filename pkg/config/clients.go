package config

import (
	"context"
	"fmt"
	"time"

	"github.com/modelriver/doccache/internal/utils/clientcache"
	"github.com/modelriver/doccache/pkg/models"
	"github.com/modelriver/doccache/pkg/store"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Redis clients are shared per URL: two adapters against the same store get
// one connection pool.
var redisClients = clientcache.NewCache[*redis.Client]()

// BuildStore constructs the document store named by cfg and verifies it is
// reachable before handing it to an adapter.
func BuildStore(cfg models.StoreConfig) (store.DocumentStore, error) {
	switch cfg.Backend {
	case models.StoreBackendRedis:
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client)
	case models.StoreBackendPostgreSQL, models.StoreBackendMySQL, models.StoreBackendSQLite:
		db, err := openSQL(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

// NewRedisClient returns a pooled, ping-verified client for redisURL,
// reusing an existing client when one was already built for the same URL
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	return redisClients.GetOrCreate(redisURL, func() (*redis.Client, error) {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}

		opt.PoolSize = 50
		opt.MinIdleConns = 10
		opt.PoolTimeout = 4 * time.Second
		opt.ConnMaxIdleTime = 5 * time.Minute
		opt.ConnMaxLifetime = 30 * time.Minute
		opt.DialTimeout = 10 * time.Second
		opt.ReadTimeout = 3 * time.Second
		opt.WriteTimeout = 3 * time.Second
		opt.MaxRetries = 3
		opt.MinRetryBackoff = 8 * time.Millisecond
		opt.MaxRetryBackoff = 512 * time.Millisecond

		client := redis.NewClient(opt)
		if err := pingRedisWithRetry(client); err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil
	})
}

func pingRedisWithRetry(client *redis.Client) error {
	const maxAttempts = 3
	const baseDelay = 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()

		if lastErr == nil {
			fiberlog.Infof("Redis connection established (attempt %d/%d)", attempt, maxAttempts)
			return nil
		}

		fiberlog.Warnf("Redis connection failed (attempt %d/%d): %v", attempt, maxAttempts, lastErr)
		if attempt < maxAttempts {
			time.Sleep(baseDelay * time.Duration(attempt))
		}
	}
	return fmt.Errorf("redis unreachable after %d attempts: %w", maxAttempts, lastErr)
}

func openSQL(cfg models.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Backend {
	case models.StoreBackendPostgreSQL:
		dialector = postgres.Open(postgresDSN(cfg))
	case models.StoreBackendMySQL:
		dialector = mysql.Open(mysqlDSN(cfg))
	case models.StoreBackendSQLite:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path is required for SQLite")
		}
		dialector = sqlite.Open(cfg.FilePath)
	default:
		return nil, fmt.Errorf("unsupported SQL backend: %s", cfg.Backend)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Backend, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Backend, err)
	}
	return gormDB, nil
}

func postgresDSN(cfg models.StoreConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, sslMode,
	)
}

func mysqlDSN(cfg models.StoreConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}
