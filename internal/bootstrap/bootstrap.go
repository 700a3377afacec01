// Package bootstrap wires configuration into the infrastructure shared by the
// command-line entry points.
package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alem-hub/academic-records/config"
	"github.com/alem-hub/academic-records/internal/application/command"
	"github.com/alem-hub/academic-records/internal/application/query"
	"github.com/alem-hub/academic-records/internal/domain/shared"
	"github.com/alem-hub/academic-records/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/academic-records/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/academic-records/pkg/logger"
	"github.com/alem-hub/academic-records/pkg/retry"
)

// seedLockResource names the Redis lock that serializes seeding runs.
const seedLockResource = "seed"

// NewLogger creates the process logger at the configured level.
func NewLogger(cfg *config.Config, name string) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Output = os.Stderr
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.AddCaller = cfg.App.Debug

	return logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("version", cfg.App.Version),
		logger.String("command", name),
	)
}

// Context returns a context that is cancelled on SIGINT/SIGTERM or once the
// configured run timeout elapses.
func Context(parent context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	if cfg.App.Timeout <= 0 {
		return ctx, stop
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.App.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// PostgresConfig maps the database section onto the pool configuration.
func PostgresConfig(cfg *config.Config) postgres.Config {
	pg := postgres.DefaultConfig()
	pg.URL = cfg.Database.URL
	pg.MaxConns = int32(cfg.Database.MaxConns)
	pg.MinConns = int32(cfg.Database.MinConns)
	pg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pg.ConnectTimeout = cfg.Database.ConnectTimeout
	return pg
}

// RedisConfig maps the redis section onto the client configuration.
func RedisConfig(cfg *config.Config) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.KeyPrefix = cfg.Redis.KeyPrefix
	return rc
}

// SeedOptions maps the seed section onto the seeder options.
func SeedOptions(cfg *config.Config) command.SeedOptions {
	s := cfg.Seed
	return command.SeedOptions{
		Groups:              s.Groups,
		StudentsMin:         s.StudentsMin,
		StudentsMax:         s.StudentsMax,
		SubjectsMin:         s.SubjectsMin,
		SubjectsMax:         s.SubjectsMax,
		TeachersMin:         s.TeachersMin,
		TeachersMax:         s.TeachersMax,
		MaxGradesPerStudent: s.MaxGradesPerStudent,
		ScoreMin:            s.ScoreMin,
		ScoreMax:            s.ScoreMax,
		History:             s.History,
		RandomSeed:          s.RandomSeed,
	}
}

// ReportRunnerConfig maps the report section onto the runner configuration.
func ReportRunnerConfig(cfg *config.Config) query.ReportRunnerConfig {
	return query.ReportRunnerConfig{
		TopLimit:    cfg.Report.TopLimit,
		Concurrency: cfg.Report.Concurrency,
	}
}

// ConnectDatabase opens the pool, retrying while the database is unreachable.
// Any other failure, such as bad credentials, is returned at once.
func ConnectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	pgCfg := PostgresConfig(cfg)

	r := retry.ConnectRetrier(cfg.Database.ConnectRetries,
		retry.WithRetryIf(shared.IsStoreUnavailable),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("database not reachable, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)

	log.Info("connecting to database...")
	conn, err := retry.DoWithRetrier(ctx, r, func(ctx context.Context) (*postgres.Connection, error) {
		return postgres.NewConnection(ctx, pgCfg)
	})
	if err != nil {
		return nil, err
	}
	log.Info("database connection established")
	return conn, nil
}

// SeedLocker returns the lock that serializes seeding runs and a func that
// releases its resources. With Redis disabled every run proceeds unguarded.
func SeedLocker(cfg *config.Config, log *logger.Logger) (command.Locker, func(), error) {
	if cfg.Redis.Disabled {
		log.Debug("redis disabled, seeding runs are not serialized")
		return command.NopLocker{}, func() {}, nil
	}

	client, err := redis.NewClient(RedisConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	log.Info("redis connection established", logger.String("addr", RedisConfig(cfg).Addr()))

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", logger.Err(err))
		}
	}
	return redis.NewLock(client, seedLockResource, cfg.Redis.LockTTL), closeFn, nil
}
