// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT RUNNER
// Resolves one example value per filter dimension and runs every report that
// has its parameters. Reports are independent single-statement reads, so they
// run concurrently; the result keeps report order.
// ══════════════════════════════════════════════════════════════════════════════

// SectionKind says which result field of a Section is populated.
type SectionKind int

const (
	KindRanking SectionKind = iota
	KindAverage
	KindNames
	KindGrades
)

// Section is the outcome of one report.
type Section struct {
	Number int
	Name   string
	Title  string
	Kind   SectionKind

	// Skipped is the reason the report did not run; empty when it ran.
	Skipped string

	Ranking []academic.StudentAverage
	Average *float64
	Names   []string
	Grades  []academic.GradeEntry

	Duration time.Duration
}

// Ran reports whether the section holds a result.
func (s Section) Ran() bool {
	return s.Skipped == ""
}

// Report is the outcome of a full run, one Section per report in order.
type Report struct {
	RunID    string
	Params   academic.ExampleParams
	Sections []Section
	Duration time.Duration
}

// ReportRunnerConfig contains configuration for the runner.
type ReportRunnerConfig struct {
	TopLimit    int
	Concurrency int
}

// DefaultReportRunnerConfig returns default configuration.
func DefaultReportRunnerConfig() ReportRunnerConfig {
	return ReportRunnerConfig{
		TopLimit:    academic.DefaultTopLimit,
		Concurrency: 4,
	}
}

// ReportRunner runs the fixed report set against a ReportRepository.
type ReportRunner struct {
	reports academic.ReportRepository
	log     *logger.Logger
	config  ReportRunnerConfig
}

// NewReportRunner creates a new ReportRunner.
func NewReportRunner(reports academic.ReportRepository, log *logger.Logger, config ReportRunnerConfig) *ReportRunner {
	defaults := DefaultReportRunnerConfig()
	if config.TopLimit <= 0 {
		config.TopLimit = defaults.TopLimit
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportRunner{
		reports: reports,
		log:     log.With(logger.Component("report_runner")),
		config:  config,
	}
}

// Run resolves the example parameters and runs every report. The first
// failing report cancels the rest and its error is returned.
func (r *ReportRunner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := r.log.WithRunID(report.RunID)

	params, err := r.reports.ExampleParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("report_runner: example params: %w", err)
	}
	report.Params = params
	logParams(log, params)

	defs := r.definitions()
	report.Sections = make([]Section, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for i, def := range defs {
		section := &report.Sections[i]
		section.Number = i + 1
		section.Name = def.name
		section.Kind = def.kind
		section.Title = def.title(params)

		if reason := def.missing(params); reason != "" {
			section.Skipped = reason
			log.Info("skipping report", logger.Report(def.name), logger.String("reason", reason))
			continue
		}

		g.Go(func() error {
			t := time.Now()
			if err := def.run(gctx, params, section); err != nil {
				return fmt.Errorf("report_runner: %s: %w", def.name, err)
			}
			section.Duration = time.Since(t)
			log.Debug("report finished", logger.Report(def.name), logger.Latency(section.Duration))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("report run failed", logger.Err(err))
		return nil, err
	}

	report.Duration = time.Since(started)
	log.Info("reports finished", logger.Int("sections", len(report.Sections)), logger.Latency(report.Duration))
	return report, nil
}

// logParams records the resolved example values and warns about each
// dimension that has none.
func logParams(log *logger.Logger, p academic.ExampleParams) {
	var fields []logger.Field
	for _, d := range []struct {
		label string
		value *string
		field func(string) logger.Field
	}{
		{"subject", p.SubjectName, logger.Subject},
		{"group", p.GroupName, logger.Group},
		{"teacher", p.TeacherFullname, logger.Teacher},
		{"student", p.StudentFullname, logger.StudentName},
	} {
		if d.value == nil {
			log.Warn("no example " + d.label + " available")
			continue
		}
		fields = append(fields, d.field(*d.value))
	}
	log.Info("example parameters resolved", fields...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Report definitions
// ─────────────────────────────────────────────────────────────────────────────

type definition struct {
	name    string
	kind    SectionKind
	title   func(p academic.ExampleParams) string
	missing func(p academic.ExampleParams) string
	run     func(ctx context.Context, p academic.ExampleParams, s *Section) error
}

func (r *ReportRunner) definitions() []definition {
	reports := r.reports
	limit := r.config.TopLimit

	return []definition{
		{
			name:    "top_students",
			kind:    KindRanking,
			title:   func(academic.ExampleParams) string { return fmt.Sprintf("Top %d students by average grade", limit) },
			missing: none,
			run: func(ctx context.Context, _ academic.ExampleParams, s *Section) (err error) {
				s.Ranking, err = reports.TopStudents(ctx, limit)
				return err
			},
		},
		{
			name: "top_student_for_subject",
			kind: KindRanking,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Student with highest average grade for subject '%s'", deref(p.SubjectName))
			},
			missing: requires(subject),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) error {
				best, err := reports.TopStudentForSubject(ctx, *p.SubjectName)
				if err != nil {
					return err
				}
				s.Ranking = []academic.StudentAverage{}
				if best != nil {
					s.Ranking = append(s.Ranking, *best)
				}
				return nil
			},
		},
		{
			name: "average_for_group_in_subject",
			kind: KindAverage,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Average grade in group '%s' for subject '%s'", deref(p.GroupName), deref(p.SubjectName))
			},
			missing: requires(subject, group),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) (err error) {
				s.Average, err = reports.AverageForGroupInSubject(ctx, *p.SubjectName, *p.GroupName)
				return err
			},
		},
		{
			name:    "overall_average",
			kind:    KindAverage,
			title:   func(academic.ExampleParams) string { return "Overall average grade across all grades" },
			missing: none,
			run: func(ctx context.Context, _ academic.ExampleParams, s *Section) (err error) {
				s.Average, err = reports.OverallAverage(ctx)
				return err
			},
		},
		{
			name: "subjects_by_teacher",
			kind: KindNames,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Courses taught by teacher '%s'", deref(p.TeacherFullname))
			},
			missing: requires(teacher),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) (err error) {
				s.Names, err = reports.SubjectsByTeacher(ctx, *p.TeacherFullname)
				return err
			},
		},
		{
			name: "students_in_group",
			kind: KindNames,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Students in group '%s'", deref(p.GroupName))
			},
			missing: requires(group),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) (err error) {
				s.Names, err = reports.StudentsInGroup(ctx, *p.GroupName)
				return err
			},
		},
		{
			name: "group_grades_in_subject",
			kind: KindGrades,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Grades of students in group '%s' for subject '%s'", deref(p.GroupName), deref(p.SubjectName))
			},
			missing: requires(group, subject),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) (err error) {
				s.Grades, err = reports.GroupGradesInSubject(ctx, *p.GroupName, *p.SubjectName)
				return err
			},
		},
		{
			name: "average_by_teacher",
			kind: KindAverage,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Average grade given by teacher '%s'", deref(p.TeacherFullname))
			},
			missing: requires(teacher),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) (err error) {
				s.Average, err = reports.AverageByTeacher(ctx, *p.TeacherFullname)
				return err
			},
		},
		{
			name: "subjects_for_student",
			kind: KindNames,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Courses attended by student '%s'", deref(p.StudentFullname))
			},
			missing: requires(student),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) (err error) {
				s.Names, err = reports.SubjectsForStudent(ctx, *p.StudentFullname)
				return err
			},
		},
		{
			name: "subjects_for_student_by_teacher",
			kind: KindNames,
			title: func(p academic.ExampleParams) string {
				return fmt.Sprintf("Courses taught by '%s' that '%s' attends", deref(p.TeacherFullname), deref(p.StudentFullname))
			},
			missing: requires(student, teacher),
			run: func(ctx context.Context, p academic.ExampleParams, s *Section) (err error) {
				s.Names, err = reports.SubjectsForStudentByTeacher(ctx, *p.StudentFullname, *p.TeacherFullname)
				return err
			},
		},
	}
}

// dimension is one filter parameter of the example set.
type dimension struct {
	label string
	get   func(academic.ExampleParams) *string
}

var (
	subject = dimension{"subject", func(p academic.ExampleParams) *string { return p.SubjectName }}
	group   = dimension{"group", func(p academic.ExampleParams) *string { return p.GroupName }}
	teacher = dimension{"teacher", func(p academic.ExampleParams) *string { return p.TeacherFullname }}
	student = dimension{"student", func(p academic.ExampleParams) *string { return p.StudentFullname }}
)

// requires builds a check that names the unavailable dimensions.
func requires(dims ...dimension) func(academic.ExampleParams) string {
	return func(p academic.ExampleParams) string {
		var missing []string
		for _, d := range dims {
			if d.get(p) == nil {
				missing = append(missing, d.label)
			}
		}
		switch len(missing) {
		case 0:
			return ""
		case 1:
			return fmt.Sprintf("no example %s available", missing[0])
		default:
			return fmt.Sprintf("no example %s or %s available", missing[0], missing[1])
		}
	}
}

func none(academic.ExampleParams) string { return "" }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
