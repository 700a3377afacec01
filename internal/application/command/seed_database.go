// Package command contains write operations (CQRS - Commands).
// Commands are responsible for changing the state of the system.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEED DATABASE COMMAND
// Fills the store with a randomized but internally consistent population of
// groups, teachers, subjects, students and grades. The whole run is one
// transaction: either everything is written or nothing is.
// ══════════════════════════════════════════════════════════════════════════════

// SeedDatabaseCommand contains the data needed to seed the store.
type SeedDatabaseCommand struct {
	// Truncate empties every table, inside the same transaction, first.
	Truncate bool

	// RandomSeed overrides SeedOptions.RandomSeed when non-zero.
	RandomSeed uint64

	// Now anchors grade timestamps; zero means the current time.
	Now time.Time
}

// SeedResult contains the outcome of a seeding run.
type SeedResult struct {
	// RunID identifies the run in logs.
	RunID string

	Groups   int
	Teachers int
	Subjects int
	Students int
	Grades   int64

	// ExpectedAverage is the rounded mean of the scores written by this run,
	// nil when no grades were written.
	ExpectedAverage *float64

	Duration time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES (Interfaces)
// ══════════════════════════════════════════════════════════════════════════════

// Locker serializes seeding runs that share one database.
type Locker interface {
	// Acquire takes the lock or fails with shared.ErrSeedInProgress.
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// NopLocker never blocks. It is used when no lock backend is configured.
type NopLocker struct{}

// Acquire always succeeds.
func (NopLocker) Acquire(context.Context) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SeedDatabaseHandler handles the SeedDatabaseCommand.
type SeedDatabaseHandler struct {
	tx   academic.TxRunner
	lock Locker
	log  *logger.Logger
	opts SeedOptions
}

// NewSeedDatabaseHandler creates a new SeedDatabaseHandler. A nil lock means
// NopLocker, a nil log means logger.Nop.
func NewSeedDatabaseHandler(tx academic.TxRunner, lock Locker, log *logger.Logger, opts SeedOptions) *SeedDatabaseHandler {
	if lock == nil {
		lock = NopLocker{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SeedDatabaseHandler{
		tx:   tx,
		lock: lock,
		log:  log.With(logger.Component("seeder")),
		opts: opts,
	}
}

// Handle executes the seed database command.
func (h *SeedDatabaseHandler) Handle(ctx context.Context, cmd SeedDatabaseCommand) (*SeedResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := h.log.WithRunID(runID)

	opts := h.opts
	if cmd.RandomSeed != 0 {
		opts.RandomSeed = cmd.RandomSeed
	}

	plan, err := BuildSeedPlan(opts, gofakeit.New(opts.RandomSeed), cmd.Now)
	if err != nil {
		return nil, err
	}

	release, err := h.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed_database: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to release seed lock", logger.Err(err))
		}
	}()

	result := &SeedResult{RunID: runID}
	err = h.tx.RunInTx(ctx, func(ctx context.Context, store academic.Store) error {
		if cmd.Truncate {
			if err := store.Truncate(ctx); err != nil {
				return fmt.Errorf("truncate: %w", err)
			}
			log.Info("cleared existing data")
		}
		return h.insert(ctx, store, plan, result, log)
	})
	if err != nil {
		log.Error("seeding rolled back", logger.Err(err))
		return nil, fmt.Errorf("seed_database: %w", err)
	}

	result.ExpectedAverage = plan.ExpectedAverage()
	result.Duration = time.Since(started)

	log.Info("seeding committed",
		logger.Int("groups", result.Groups),
		logger.Int("teachers", result.Teachers),
		logger.Int("subjects", result.Subjects),
		logger.Int("students", result.Students),
		logger.Rows(result.Grades),
		logger.Latency(result.Duration),
	)
	return result, nil
}

// insert writes the plan parent-first so every reference resolves to an id
// created earlier in the same transaction.
func (h *SeedDatabaseHandler) insert(ctx context.Context, store academic.Store, plan SeedPlan, result *SeedResult, log *logger.Logger) error {
	groupIDs := make([]int64, len(plan.Groups))
	for i, name := range plan.Groups {
		g, err := academic.NewGroup(name)
		if err != nil {
			return err
		}
		if err := store.Groups().Create(ctx, g); err != nil {
			return fmt.Errorf("create group %q: %w", name, err)
		}
		groupIDs[i] = g.ID
	}
	result.Groups = len(groupIDs)
	log.Debug("created groups", logger.Rows(int64(len(groupIDs))))

	teacherIDs := make([]int64, len(plan.Teachers))
	for i, name := range plan.Teachers {
		t, err := academic.NewTeacher(name)
		if err != nil {
			return err
		}
		if err := store.Teachers().Create(ctx, t); err != nil {
			return fmt.Errorf("create teacher %q: %w", name, err)
		}
		teacherIDs[i] = t.ID
	}
	result.Teachers = len(teacherIDs)
	log.Debug("created teachers", logger.Rows(int64(len(teacherIDs))))

	if len(teacherIDs) == 0 {
		log.Info("no teachers available, skipping subjects")
	}
	subjectIDs := make([]int64, len(plan.Subjects))
	for i, ps := range plan.Subjects {
		s, err := academic.NewSubject(ps.Name, academic.Ref(teacherIDs[ps.Teacher]))
		if err != nil {
			return err
		}
		if err := store.Subjects().Create(ctx, s); err != nil {
			return fmt.Errorf("create subject %q: %w", ps.Name, err)
		}
		subjectIDs[i] = s.ID
	}
	result.Subjects = len(subjectIDs)
	log.Debug("created subjects", logger.Rows(int64(len(subjectIDs))))

	if len(groupIDs) == 0 {
		log.Info("no groups available, skipping students")
	}
	studentIDs := make([]int64, len(plan.Students))
	for i, ps := range plan.Students {
		s, err := academic.NewStudent(ps.Fullname, academic.Ref(groupIDs[ps.Group]))
		if err != nil {
			return err
		}
		if err := store.Students().Create(ctx, s); err != nil {
			return fmt.Errorf("create student %q: %w", ps.Fullname, err)
		}
		studentIDs[i] = s.ID
	}
	result.Students = len(studentIDs)
	log.Debug("created students", logger.Rows(int64(len(studentIDs))))

	if len(plan.Grades) == 0 {
		log.Info("no students or subjects available, skipping grades")
		return nil
	}

	grades := make([]*academic.Grade, len(plan.Grades))
	for i, pg := range plan.Grades {
		g, err := academic.NewGrade(studentIDs[pg.Student], subjectIDs[pg.Subject], pg.Score, pg.ReceivedAt)
		if err != nil {
			return err
		}
		grades[i] = g
	}

	n, err := store.Grades().CreateBatch(ctx, grades)
	if err != nil {
		return fmt.Errorf("create grades: %w", err)
	}
	result.Grades = n
	log.Debug("created grades", logger.Rows(n))
	return nil
}
