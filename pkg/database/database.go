package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"dairytale/pkg/config"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewConnection opens the database selected by DB_DRIVER
func NewConnection(cfg *config.Config) (*gorm.DB, error) {
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormCfg := &gorm.Config{Logger: gormLog}

	switch cfg.DBDriver {
	case "postgres", "postgresql":
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		return db, nil
	case "sqlite", "":
		db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database %s: %w", cfg.DatabaseURL, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// NewRedisClient connects to REDIS_ADDR and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
