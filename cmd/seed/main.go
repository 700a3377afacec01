// Package main fills the academic records store with randomized data.
//
// The run creates the schema when needed, then inserts groups, teachers,
// subjects, students and their grades in one transaction. Population sizes
// come from the SEED_* environment variables; SEED_TRUNCATE=true empties the
// tables first. With Redis enabled concurrent runs are refused.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alem-hub/academic-records/config"
	"github.com/alem-hub/academic-records/internal/application/command"
	"github.com/alem-hub/academic-records/internal/bootstrap"
	"github.com/alem-hub/academic-records/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/academic-records/internal/interface/cli/presenter"
	"github.com/alem-hub/academic-records/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
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
	log := bootstrap.NewLogger(cfg, "seed")
	log.Info("starting seeder", logger.String("env", string(cfg.App.Environment)))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := bootstrap.ConnectDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	applied, err := postgres.NewMigrator(conn).Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		log.Info("migrations applied", logger.Int("count", applied))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. SEED LOCK (Redis, optional)
	// ─────────────────────────────────────────────────────────────────────────
	lock, closeLock, err := bootstrap.SeedLocker(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer closeLock()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. SEED
	// ─────────────────────────────────────────────────────────────────────────
	handler := command.NewSeedDatabaseHandler(
		postgres.NewStore(conn),
		lock,
		log,
		bootstrap.SeedOptions(cfg),
	)

	result, err := handler.Handle(ctx, command.SeedDatabaseCommand{
		Truncate: cfg.Seed.Truncate,
	})
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(os.Stdout,
		"seeded %d groups, %d teachers, %d subjects, %d students, %d grades (average %s) in %s\n",
		result.Groups,
		result.Teachers,
		result.Subjects,
		result.Students,
		result.Grades,
		presenter.FormatAverage(result.ExpectedAverage),
		result.Duration.Round(time.Millisecond),
	)
	return nil
}
