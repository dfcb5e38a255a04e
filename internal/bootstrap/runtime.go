// Package bootstrap wires the process-wide dependencies shared by the server
// and the maintenance commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"snapshare/internal/auth"
	"snapshare/internal/cache"
	"snapshare/internal/config"
	"snapshare/internal/database"
	"snapshare/internal/middleware"
	"snapshare/internal/models"
	"snapshare/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the connections opened by InitRuntime.
type Runtime struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Storage *storage.Store

	provider *database.Provider
}

// Options control runtime initialization behavior.
type Options struct {
	// SkipStorage leaves Runtime.Storage nil for commands that never upload.
	SkipStorage bool
}

// InitRuntime connects to DB and Redis and builds the asset store. Redis is
// optional: an unreachable server yields a nil client.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	provider := database.NewProvider(cfg)
	db, err := provider.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt := &Runtime{DB: db, provider: provider}

	rt.Redis = cache.InitRedis(cfg.RedisURL)

	if !opts.SkipStorage {
		store, err := storage.New(ctx, cfg)
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		rt.Storage = store
	}

	if err := ensureDevDemoAccount(ctx, cfg, db); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("failed to bootstrap development demo account: %w", err)
	}

	return rt, nil
}

// Close releases the database pool and the Redis client.
func (r *Runtime) Close() error {
	var errs []error
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.provider != nil {
		errs = append(errs, r.provider.Close())
	}
	return errors.Join(errs...)
}

// ensureDevDemoAccount makes sure a known password account exists when
// DEV_BOOTSTRAP_DEMO is set in development.
func ensureDevDemoAccount(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapDemo {
		return nil
	}

	email := models.NormalizeEmail(cfg.DevDemoEmail)
	if email == "" {
		email = "demo@snapshare.local"
	}
	if cfg.DevDemoPassword == "" {
		return errors.New("DEV_DEMO_PASSWORD must be set when DEV_BOOTSTRAP_DEMO is enabled")
	}

	hash, err := auth.HashPassword(cfg.DevDemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var demo models.User
		findErr := tx.Where("email = ?", email).First(&demo).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			demo = models.User{Email: email, Name: "Demo", Password: hash}
			return tx.Create(&demo).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&demo).Update("password", hash).Error
		}
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("development demo account ensured", slog.String("email", email))
	return nil
}
