package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/academic-records/config"
	"github.com/alem-hub/academic-records/internal/application/command"
	"github.com/alem-hub/academic-records/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "academic-records", Timeout: time.Minute},
		Database: config.DatabaseConfig{
			URL:            "postgres://localhost/academic",
			MaxConns:       7,
			MinConns:       2,
			ConnectTimeout: 3 * time.Second,
			ConnectRetries: 2,
		},
		Redis: config.RedisConfig{Host: "cache", Port: 6380, KeyPrefix: "x:", Disabled: true},
		Seed: config.SeedConfig{
			Groups: 4, StudentsMin: 1, StudentsMax: 2, SubjectsMin: 3, SubjectsMax: 4,
			TeachersMin: 5, TeachersMax: 6, MaxGradesPerStudent: 7, ScoreMin: 50, ScoreMax: 90,
			History: time.Hour, RandomSeed: 11,
		},
		Report:        config.ReportConfig{TopLimit: 3, Concurrency: 2},
		Observability: config.ObservabilityConfig{LogLevel: "debug"},
	}
}

func TestMappings(t *testing.T) {
	cfg := testConfig()

	pg := PostgresConfig(cfg)
	assert.Equal(t, "postgres://localhost/academic", pg.DSN())
	assert.Equal(t, int32(7), pg.MaxConns)
	assert.Equal(t, int32(2), pg.MinConns)

	rc := RedisConfig(cfg)
	assert.Equal(t, "cache:6380", rc.Addr())
	assert.Equal(t, "x:", rc.KeyPrefix)

	assert.Equal(t, command.SeedOptions{
		Groups: 4, StudentsMin: 1, StudentsMax: 2, SubjectsMin: 3, SubjectsMax: 4,
		TeachersMin: 5, TeachersMax: 6, MaxGradesPerStudent: 7, ScoreMin: 50, ScoreMax: 90,
		History: time.Hour, RandomSeed: 11,
	}, SeedOptions(cfg))

	rr := ReportRunnerConfig(cfg)
	assert.Equal(t, 3, rr.TopLimit)
	assert.Equal(t, 2, rr.Concurrency)
}

func TestSeedLocker_DisabledRedis(t *testing.T) {
	lock, closeFn, err := SeedLocker(testConfig(), logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, command.NopLocker{}, lock)
}

func TestContext_Timeout(t *testing.T) {
	cfg := testConfig()
	cfg.App.Timeout = time.Millisecond

	ctx, cancel := Context(context.Background(), cfg)
	defer cancel()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}
}
