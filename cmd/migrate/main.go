// Command migrate inspects and changes the Snapshare schema.
//
//	go run ./cmd/migrate status
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down [version]
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"snapshare/internal/config"
	"snapshare/internal/database"
	"snapshare/internal/middleware"

	"gorm.io/gorm"
)

type command struct {
	help string
	run  func(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string, out io.Writer) error
}

var commands = map[string]command{
	"up":     {help: "apply pending SQL migrations", run: runUp},
	"auto":   {help: "create or update tables with AutoMigrate (non-production only)", run: runAuto},
	"status": {help: "show schema mode and applied/pending migrations", run: runStatus},
	"list":   {help: "list the embedded migrations", run: runList},
	"down":   {help: "roll back [version], defaulting to the newest applied", run: runDown},
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	if _, ok := commands[strings.ToLower(strings.TrimSpace(os.Args[1]))]; !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = execute(context.Background(), db, cfg, os.Args[1:], os.Stdout)
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: migrate <command> [args]")
	for _, name := range names {
		fmt.Fprintf(w, "  %-7s %s\n", name, commands[name].help)
	}
}

func execute(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string, out io.Writer) error {
	name := strings.ToLower(strings.TrimSpace(args[0]))
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.run(ctx, db, cfg, args[1:], out)
}

func runUp(ctx context.Context, db *gorm.DB, _ *config.Config, _ []string, out io.Writer) error {
	before, err := database.AppliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("sql migrations failed: %w", err)
	}
	after, err := database.AppliedVersions(ctx, db)
	if err != nil {
		return err
	}

	if len(after) == len(before) {
		fmt.Fprintln(out, "schema is up to date")
		return nil
	}
	names, err := migrationNames()
	if err != nil {
		return err
	}
	for _, v := range after[len(before):] {
		fmt.Fprintf(out, "applied %s\n", names.label(v))
	}
	return nil
}

func runAuto(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string, out io.Writer) error {
	auto := *cfg
	auto.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, db, &auto); err != nil {
		return fmt.Errorf("auto schema apply failed: %w", err)
	}
	fmt.Fprintf(out, "auto-migrated %d models\n", len(database.PersistentModels()))
	return nil
}

func runStatus(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string, out io.Writer) error {
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}
	names, err := migrationNames()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "mode=%s env=%s driver=%s\n", status.Mode, status.Environment, db.Dialector.Name())
	for _, v := range status.AppliedVersions {
		fmt.Fprintf(out, "  [x] %s\n", names.label(v))
	}
	for _, m := range status.PendingMigrations {
		fmt.Fprintf(out, "  [ ] %s\n", m.String())
	}
	fmt.Fprintf(out, "%d applied, %d pending\n", len(status.AppliedVersions), len(status.PendingMigrations))
	return nil
}

func runList(_ context.Context, _ *gorm.DB, _ *config.Config, _ []string, out io.Writer) error {
	all, err := database.Migrations()
	if err != nil {
		return err
	}
	for i := range all {
		fmt.Fprintln(out, all[i].String())
	}
	return nil
}

func runDown(ctx context.Context, db *gorm.DB, _ *config.Config, args []string, out io.Writer) error {
	var version int
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		version = v
	} else {
		applied, err := database.AppliedVersions(ctx, db)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			return fmt.Errorf("no applied migrations to roll back")
		}
		version = applied[len(applied)-1]
	}

	names, err := migrationNames()
	if err != nil {
		return err
	}
	if err := database.RollbackMigration(ctx, db, version); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	fmt.Fprintf(out, "rolled back %s\n", names.label(version))
	return nil
}

type nameIndex map[int]string

func migrationNames() (nameIndex, error) {
	all, err := database.Migrations()
	if err != nil {
		return nil, err
	}
	idx := make(nameIndex, len(all))
	for i := range all {
		idx[all[i].Version] = all[i].String()
	}
	return idx, nil
}

// label names a version; versions missing from the binary are flagged.
func (n nameIndex) label(version int) string {
	if name, ok := n[version]; ok {
		return name
	}
	return fmt.Sprintf("%06d (not in this build)", version)
}
