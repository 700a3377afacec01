package postgres

import (
	"context"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// GroupRepository implements academic.GroupRepository for PostgreSQL.
type GroupRepository struct {
	q Querier
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(q Querier) *GroupRepository {
	return &GroupRepository{q: q}
}

// Create inserts the group and sets its ID.
func (r *GroupRepository) Create(ctx context.Context, g *academic.Group) error {
	err := r.q.QueryRow(ctx, `INSERT INTO groups (name) VALUES ($1) RETURNING id`, g.Name).Scan(&g.ID)
	return classify("group", "Create", err)
}

// GetByID returns a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*academic.Group, error) {
	g := &academic.Group{}
	err := r.q.QueryRow(ctx, `SELECT id, name FROM groups WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrGroupNotFound
		}
		return nil, classify("group", "GetByID", err)
	}
	return g, nil
}

// Delete removes the group; ON DELETE SET NULL clears students.group_id.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return classify("group", "Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrGroupNotFound
	}
	return nil
}
