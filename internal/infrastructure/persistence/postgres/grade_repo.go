package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/academic-records/internal/domain/academic"
)

var gradeColumns = []string{"student_id", "subject_id", "grade", "date_received"}

// GradeRepository implements academic.GradeRepository for PostgreSQL.
type GradeRepository struct {
	q Querier
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(q Querier) *GradeRepository {
	return &GradeRepository{q: q}
}

// Create inserts one grade and sets its ID.
func (r *GradeRepository) Create(ctx context.Context, g *academic.Grade) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO grades (student_id, subject_id, grade, date_received)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		g.StudentID, g.SubjectID, g.Score, g.ReceivedAt,
	).Scan(&g.ID)
	return classify("grade", "Create", err)
}

// CreateBatch loads the grades with COPY. Foreign keys are still checked, so a
// bad reference fails the whole batch.
func (r *GradeRepository) CreateBatch(ctx context.Context, grades []*academic.Grade) (int64, error) {
	if len(grades) == 0 {
		return 0, nil
	}

	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"grades"}, gradeColumns,
		pgx.CopyFromSlice(len(grades), func(i int) ([]any, error) {
			g := grades[i]
			return []any{g.StudentID, g.SubjectID, g.Score, g.ReceivedAt}, nil
		}),
	)
	if err != nil {
		return 0, classify("grade", "CreateBatch", err)
	}
	return n, nil
}

// CountByStudent returns the number of grades of a student.
func (r *GradeRepository) CountByStudent(ctx context.Context, studentID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM grades WHERE student_id = $1`, studentID).Scan(&n)
	return n, classify("grade", "CountByStudent", err)
}

// Count returns the total number of grades.
func (r *GradeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM grades`).Scan(&n)
	return n, classify("grade", "Count", err)
}
