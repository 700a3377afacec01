// Package main is the schema migration tool of the academic records store.
//
// Usage:
//
//	migrate [up|down|status]
//
// up applies every pending migration (the default), down rolls back the last
// applied one and status lists every migration with its state.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alem-hub/academic-records/config"
	"github.com/alem-hub/academic-records/internal/bootstrap"
	"github.com/alem-hub/academic-records/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/academic-records/pkg/logger"
	"github.com/alem-hub/academic-records/pkg/timeutil"
)

func main() {
	action := "up"
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if err := run(context.Background(), action, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, action string, out io.Writer) error {
	if action != "up" && action != "down" && action != "status" {
		return fmt.Errorf("unknown action %q, want up, down or status", action)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := bootstrap.Context(ctx, cfg)
	defer cancel()

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := bootstrap.NewLogger(cfg, "migrate")

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := bootstrap.ConnectDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	migrator := postgres.NewMigrator(conn)

	switch action {
	case "up":
		applied, err := migrator.Migrate(ctx)
		if err != nil {
			return err
		}
		log.Info("migrations applied", logger.Int("count", applied))

	case "down":
		version, err := migrator.Rollback(ctx)
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("nothing to roll back")
			return nil
		}
		log.Info("migration rolled back", logger.Int("version", version))

	case "status":
		migrations, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		return printStatus(out, migrations)
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func printStatus(out io.Writer, migrations []postgres.Migration) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
	for _, m := range migrations {
		appliedAt := "pending"
		if m.IsApplied {
			appliedAt = timeutil.FormatDateTimeStr(m.AppliedAt)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, appliedAt)
	}
	return w.Flush()
}
