package postgres

import (
	"context"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// SubjectRepository implements academic.SubjectRepository for PostgreSQL.
type SubjectRepository struct {
	q Querier
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(q Querier) *SubjectRepository {
	return &SubjectRepository{q: q}
}

// Create inserts the subject and sets its ID.
func (r *SubjectRepository) Create(ctx context.Context, s *academic.Subject) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO subjects (name, teacher_id) VALUES ($1, $2) RETURNING id`,
		s.Name, s.TeacherID,
	).Scan(&s.ID)
	return classify("subject", "Create", err)
}

// GetByID returns a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*academic.Subject, error) {
	s := &academic.Subject{}
	err := r.q.QueryRow(ctx,
		`SELECT id, name, teacher_id FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.TeacherID)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubjectNotFound
		}
		return nil, classify("subject", "GetByID", err)
	}
	return s, nil
}

// AssignTeacher sets or clears the subject's teacher.
func (r *SubjectRepository) AssignTeacher(ctx context.Context, subjectID int64, teacherID *int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE subjects SET teacher_id = $1 WHERE id = $2`, teacherID, subjectID)
	if err != nil {
		return classify("subject", "AssignTeacher", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}
	return nil
}

// Delete removes the subject; ON DELETE CASCADE removes its grades.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return classify("subject", "Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}
	return nil
}
