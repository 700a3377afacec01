package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/academic-records/internal/domain/academic"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT QUERIES
// Every query is one read-only statement joined explicitly from grades (or the
// filtered parent table). Averages are rounded by the database and come back as
// NULL, hence nil, when nothing matched. Rankings break ties on student id.
// ══════════════════════════════════════════════════════════════════════════════

const (
	queryTopStudents = `
		SELECT st.id, st.fullname, ROUND(AVG(g.grade), 2)::float8 AS avg_grade
		FROM grades g
		JOIN students st ON st.id = g.student_id
		GROUP BY st.id, st.fullname
		ORDER BY avg_grade DESC, st.id ASC
		LIMIT $1`

	queryTopStudentForSubject = `
		SELECT st.id, st.fullname, ROUND(AVG(g.grade), 2)::float8 AS avg_grade
		FROM grades g
		JOIN students st ON st.id = g.student_id
		JOIN subjects sub ON sub.id = g.subject_id
		WHERE sub.name = $1
		GROUP BY st.id, st.fullname
		ORDER BY avg_grade DESC, st.id ASC
		LIMIT 1`

	queryAverageForGroupInSubject = `
		SELECT ROUND(AVG(g.grade), 2)::float8
		FROM grades g
		JOIN students st ON st.id = g.student_id
		JOIN groups gr ON gr.id = st.group_id
		JOIN subjects sub ON sub.id = g.subject_id
		WHERE sub.name = $1 AND gr.name = $2`

	queryOverallAverage = `
		SELECT ROUND(AVG(g.grade), 2)::float8
		FROM grades g`

	querySubjectsByTeacher = `
		SELECT sub.name
		FROM subjects sub
		JOIN teachers t ON t.id = sub.teacher_id
		WHERE t.fullname = $1
		ORDER BY sub.id`

	queryStudentsInGroup = `
		SELECT st.fullname
		FROM students st
		JOIN groups gr ON gr.id = st.group_id
		WHERE gr.name = $1
		ORDER BY st.fullname ASC, st.id ASC`

	queryGroupGradesInSubject = `
		SELECT st.fullname, g.grade, g.date_received
		FROM grades g
		JOIN students st ON st.id = g.student_id
		JOIN groups gr ON gr.id = st.group_id
		JOIN subjects sub ON sub.id = g.subject_id
		WHERE gr.name = $1 AND sub.name = $2
		ORDER BY st.fullname ASC, g.date_received ASC, g.id ASC`

	queryAverageByTeacher = `
		SELECT ROUND(AVG(g.grade), 2)::float8
		FROM grades g
		JOIN subjects sub ON sub.id = g.subject_id
		JOIN teachers t ON t.id = sub.teacher_id
		WHERE t.fullname = $1`

	querySubjectsForStudent = `
		SELECT DISTINCT sub.name
		FROM grades g
		JOIN subjects sub ON sub.id = g.subject_id
		JOIN students st ON st.id = g.student_id
		WHERE st.fullname = $1
		ORDER BY sub.name ASC`

	querySubjectsForStudentByTeacher = `
		SELECT DISTINCT sub.name
		FROM grades g
		JOIN students st ON st.id = g.student_id
		JOIN subjects sub ON sub.id = g.subject_id
		JOIN teachers t ON t.id = sub.teacher_id
		WHERE st.fullname = $1 AND t.fullname = $2
		ORDER BY sub.name ASC`

	queryExampleParams = `
		SELECT
			(SELECT name FROM subjects ORDER BY id LIMIT 1),
			(SELECT name FROM groups ORDER BY id LIMIT 1),
			(SELECT fullname FROM teachers ORDER BY id LIMIT 1),
			(SELECT fullname FROM students ORDER BY id LIMIT 1)`
)

// ReportRepository implements academic.ReportRepository for PostgreSQL.
type ReportRepository struct {
	q Querier
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(q Querier) *ReportRepository {
	return &ReportRepository{q: q}
}

// TopStudents ranks students by their average over all grades.
func (r *ReportRepository) TopStudents(ctx context.Context, limit int) ([]academic.StudentAverage, error) {
	if limit <= 0 {
		limit = academic.DefaultTopLimit
	}

	rows, err := r.q.Query(ctx, queryTopStudents, limit)
	if err != nil {
		return nil, classify("report", "TopStudents", err)
	}

	result, err := pgx.CollectRows(rows, scanStudentAverage)
	if err != nil {
		return nil, classify("report", "TopStudents", err)
	}
	return nonNil(result), nil
}

// TopStudentForSubject returns the student with the best average in a subject.
func (r *ReportRepository) TopStudentForSubject(ctx context.Context, subjectName string) (*academic.StudentAverage, error) {
	rows, err := r.q.Query(ctx, queryTopStudentForSubject, subjectName)
	if err != nil {
		return nil, classify("report", "TopStudentForSubject", err)
	}

	result, err := pgx.CollectRows(rows, scanStudentAverage)
	if err != nil {
		return nil, classify("report", "TopStudentForSubject", err)
	}
	if len(result) == 0 {
		return nil, nil
	}
	return &result[0], nil
}

// AverageForGroupInSubject averages the grades of a group's students in a subject.
func (r *ReportRepository) AverageForGroupInSubject(ctx context.Context, subjectName, groupName string) (*float64, error) {
	return r.average(ctx, "AverageForGroupInSubject", queryAverageForGroupInSubject, subjectName, groupName)
}

// OverallAverage averages all grades.
func (r *ReportRepository) OverallAverage(ctx context.Context) (*float64, error) {
	return r.average(ctx, "OverallAverage", queryOverallAverage)
}

// SubjectsByTeacher lists the teacher's subjects in creation order.
func (r *ReportRepository) SubjectsByTeacher(ctx context.Context, teacherFullname string) ([]string, error) {
	return r.names(ctx, "SubjectsByTeacher", querySubjectsByTeacher, teacherFullname)
}

// StudentsInGroup lists the group's students by full name.
func (r *ReportRepository) StudentsInGroup(ctx context.Context, groupName string) ([]string, error) {
	return r.names(ctx, "StudentsInGroup", queryStudentsInGroup, groupName)
}

// GroupGradesInSubject lists the grades of a group's students in a subject.
func (r *ReportRepository) GroupGradesInSubject(ctx context.Context, groupName, subjectName string) ([]academic.GradeEntry, error) {
	rows, err := r.q.Query(ctx, queryGroupGradesInSubject, groupName, subjectName)
	if err != nil {
		return nil, classify("report", "GroupGradesInSubject", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (academic.GradeEntry, error) {
		var e academic.GradeEntry
		err := row.Scan(&e.Fullname, &e.Score, &e.ReceivedAt)
		return e, err
	})
	if err != nil {
		return nil, classify("report", "GroupGradesInSubject", err)
	}
	return nonNil(result), nil
}

// AverageByTeacher averages the grades given in all of a teacher's subjects.
func (r *ReportRepository) AverageByTeacher(ctx context.Context, teacherFullname string) (*float64, error) {
	return r.average(ctx, "AverageByTeacher", queryAverageByTeacher, teacherFullname)
}

// SubjectsForStudent lists the distinct subjects a student has grades in.
func (r *ReportRepository) SubjectsForStudent(ctx context.Context, studentFullname string) ([]string, error) {
	return r.names(ctx, "SubjectsForStudent", querySubjectsForStudent, studentFullname)
}

// SubjectsForStudentByTeacher lists the distinct subjects of a teacher in
// which the student has grades.
func (r *ReportRepository) SubjectsForStudentByTeacher(ctx context.Context, studentFullname, teacherFullname string) ([]string, error) {
	return r.names(ctx, "SubjectsForStudentByTeacher", querySubjectsForStudentByTeacher, studentFullname, teacherFullname)
}

// ExampleParams returns the lowest-id row of each parameter table.
func (r *ReportRepository) ExampleParams(ctx context.Context) (academic.ExampleParams, error) {
	var p academic.ExampleParams
	err := r.q.QueryRow(ctx, queryExampleParams).Scan(
		&p.SubjectName,
		&p.GroupName,
		&p.TeacherFullname,
		&p.StudentFullname,
	)
	if err != nil {
		return academic.ExampleParams{}, classify("report", "ExampleParams", err)
	}
	return p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// average runs a single-aggregate query. AVG over no rows is NULL.
func (r *ReportRepository) average(ctx context.Context, op, query string, args ...any) (*float64, error) {
	var avg *float64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return nil, classify("report", op, err)
	}
	return avg, nil
}

func (r *ReportRepository) names(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("report", op, err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, classify("report", op, err)
	}
	return nonNil(result), nil
}

func scanStudentAverage(row pgx.CollectableRow) (academic.StudentAverage, error) {
	var s academic.StudentAverage
	err := row.Scan(&s.StudentID, &s.Fullname, &s.Average)
	return s, err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var _ academic.ReportRepository = (*ReportRepository)(nil)
