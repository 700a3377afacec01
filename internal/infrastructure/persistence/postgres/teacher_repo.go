package postgres

import (
	"context"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// TeacherRepository implements academic.TeacherRepository for PostgreSQL.
type TeacherRepository struct {
	q Querier
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(q Querier) *TeacherRepository {
	return &TeacherRepository{q: q}
}

// Create inserts the teacher and sets its ID.
func (r *TeacherRepository) Create(ctx context.Context, t *academic.Teacher) error {
	err := r.q.QueryRow(ctx, `INSERT INTO teachers (fullname) VALUES ($1) RETURNING id`, t.Fullname).Scan(&t.ID)
	return classify("teacher", "Create", err)
}

// GetByID returns a teacher by ID.
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*academic.Teacher, error) {
	t := &academic.Teacher{}
	err := r.q.QueryRow(ctx, `SELECT id, fullname FROM teachers WHERE id = $1`, id).Scan(&t.ID, &t.Fullname)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTeacherNotFound
		}
		return nil, classify("teacher", "GetByID", err)
	}
	return t, nil
}

// Delete removes the teacher; ON DELETE SET NULL clears subjects.teacher_id.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return classify("teacher", "Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrTeacherNotFound
	}
	return nil
}
