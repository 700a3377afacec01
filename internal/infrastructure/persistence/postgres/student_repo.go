package postgres

import (
	"context"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// StudentRepository implements academic.StudentRepository for PostgreSQL.
type StudentRepository struct {
	q Querier
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(q Querier) *StudentRepository {
	return &StudentRepository{q: q}
}

// Create inserts the student and sets its ID.
func (r *StudentRepository) Create(ctx context.Context, s *academic.Student) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO students (fullname, group_id) VALUES ($1, $2) RETURNING id`,
		s.Fullname, s.GroupID,
	).Scan(&s.ID)
	return classify("student", "Create", err)
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*academic.Student, error) {
	s := &academic.Student{}
	err := r.q.QueryRow(ctx,
		`SELECT id, fullname, group_id FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.Fullname, &s.GroupID)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, classify("student", "GetByID", err)
	}
	return s, nil
}

// AssignGroup sets or clears the student's group.
func (r *StudentRepository) AssignGroup(ctx context.Context, studentID int64, groupID *int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE students SET group_id = $1 WHERE id = $2`, groupID, studentID)
	if err != nil {
		return classify("student", "AssignGroup", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// Delete removes the student; ON DELETE CASCADE removes their grades.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return classify("student", "Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}
