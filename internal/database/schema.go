package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"snapshare/internal/config"
	"snapshare/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeAuto = "auto"
	SchemaModeSQL  = "sql"
)

// SchemaStatus reports what ApplySchema would do for a config.
type SchemaStatus struct {
	Mode              string
	Environment       string
	AppliedVersions   []int
	PendingMigrations []Migration
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeAuto
	}
	return mode
}

func schemaMode(cfg *config.Config, db *gorm.DB) (string, error) {
	mode := normalizedSchemaMode(cfg)
	switch mode {
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return "", fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q; use sql migrations", cfg.Env)
		}
		return mode, nil
	case SchemaModeSQL:
		if db.Dialector.Name() != "postgres" {
			return "", fmt.Errorf("DB_SCHEMA_MODE=sql requires postgres, got %s", db.Dialector.Name())
		}
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

// ApplySchema brings the schema up to date using AutoMigrate or the
// embedded SQL migrations.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	mode, err := schemaMode(cfg, db)
	if err != nil {
		return err
	}

	middleware.Logger.Info("Applying schema", slog.String("mode", mode), slog.String("env", cfg.Env))
	if mode == SchemaModeSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
		return nil
	}

	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// GetSchemaStatus lists applied and pending SQL migrations.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	status := &SchemaStatus{Mode: normalizedSchemaMode(cfg), Environment: cfg.Env}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	all, err := Migrations()
	if err != nil {
		return nil, err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	for _, m := range all {
		if !done[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}
	return status, nil
}
