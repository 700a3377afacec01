package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/academic-records/internal/domain/academic"
)

// Store bundles the repositories over one Querier. A Store built from a
// Connection opens transactions with RunInTx; a Store handed to the RunInTx
// callback is bound to that transaction.
type Store struct {
	conn *Connection
	q    Querier
}

// NewStore creates a Store on top of the connection pool.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn, q: conn}
}

// NewStoreWithQuerier creates a Store over any Querier, such as an open pgx.Tx.
// RunInTx on such a store reuses the querier instead of nesting transactions.
func NewStoreWithQuerier(q Querier) *Store {
	return &Store{q: q}
}

// RunInTx implements academic.TxRunner.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, store academic.Store) error) error {
	if s.conn == nil {
		return fn(ctx, s)
	}

	err := s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		return fn(ctx, NewStoreWithQuerier(tx))
	})
	return classify("store", "RunInTx", err)
}

func (s *Store) Groups() academic.GroupRepository     { return NewGroupRepository(s.q) }
func (s *Store) Teachers() academic.TeacherRepository { return NewTeacherRepository(s.q) }
func (s *Store) Students() academic.StudentRepository { return NewStudentRepository(s.q) }
func (s *Store) Subjects() academic.SubjectRepository { return NewSubjectRepository(s.q) }
func (s *Store) Grades() academic.GradeRepository     { return NewGradeRepository(s.q) }
func (s *Store) Reports() academic.ReportRepository   { return NewReportRepository(s.q) }

// Truncate empties every table and restarts the identity sequences.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `TRUNCATE TABLE grades, students, subjects, teachers, groups RESTART IDENTITY CASCADE`)
	return classify("store", "Truncate", err)
}

var (
	_ academic.Store    = (*Store)(nil)
	_ academic.TxRunner = (*Store)(nil)
)
