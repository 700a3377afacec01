// Package main runs the ten academic reports against the store and prints
// them. Parameters are taken from the first row of each table, so the tool
// works on any seeded database without arguments.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alem-hub/academic-records/config"
	"github.com/alem-hub/academic-records/internal/application/query"
	"github.com/alem-hub/academic-records/internal/bootstrap"
	"github.com/alem-hub/academic-records/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/academic-records/internal/interface/cli/presenter"
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
	log := bootstrap.NewLogger(cfg, "report")

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := bootstrap.ConnectDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REPORTS
	// ─────────────────────────────────────────────────────────────────────────
	runner := query.NewReportRunner(
		postgres.NewReportRepository(conn),
		log,
		bootstrap.ReportRunnerConfig(cfg),
	)

	report, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	fmt.Fprint(os.Stdout, presenter.RenderReport(report))
	return nil
}
