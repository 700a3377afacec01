package command

import (
	"context"
	"errors"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// memStore is an in-memory academic.Store whose RunInTx restores the previous
// state when fn fails.
type memStore struct {
	groups   []academic.Group
	teachers []academic.Teacher
	subjects []academic.Subject
	students []academic.Student
	grades   []academic.Grade

	// failGradesWith makes CreateBatch fail.
	failGradesWith error
	truncated      bool
	txCount        int
}

func (m *memStore) RunInTx(ctx context.Context, fn func(context.Context, academic.Store) error) error {
	m.txCount++
	snapshot := *m
	snapshot.groups = append([]academic.Group(nil), m.groups...)
	snapshot.teachers = append([]academic.Teacher(nil), m.teachers...)
	snapshot.subjects = append([]academic.Subject(nil), m.subjects...)
	snapshot.students = append([]academic.Student(nil), m.students...)
	snapshot.grades = append([]academic.Grade(nil), m.grades...)

	if err := fn(ctx, m); err != nil {
		*m = snapshot
		return err
	}
	return nil
}

func (m *memStore) Groups() academic.GroupRepository     { return memGroups{m} }
func (m *memStore) Teachers() academic.TeacherRepository { return memTeachers{m} }
func (m *memStore) Students() academic.StudentRepository { return memStudents{m} }
func (m *memStore) Subjects() academic.SubjectRepository { return memSubjects{m} }
func (m *memStore) Grades() academic.GradeRepository     { return memGrades{m} }
func (m *memStore) Reports() academic.ReportRepository   { return nil }

func (m *memStore) Truncate(context.Context) error {
	m.groups, m.teachers, m.subjects, m.students, m.grades = nil, nil, nil, nil, nil
	m.truncated = true
	return nil
}

var errUnsupported = errors.New("memstore: unsupported")

type memGroups struct{ m *memStore }

func (r memGroups) Create(_ context.Context, g *academic.Group) error {
	for _, existing := range r.m.groups {
		if existing.Name == g.Name {
			return shared.WrapError("group", "Create", shared.ErrConstraintViolation, "duplicate name", nil)
		}
	}
	g.ID = int64(len(r.m.groups) + 1)
	r.m.groups = append(r.m.groups, *g)
	return nil
}
func (r memGroups) GetByID(context.Context, int64) (*academic.Group, error) {
	return nil, errUnsupported
}
func (r memGroups) Delete(context.Context, int64) error { return errUnsupported }

type memTeachers struct{ m *memStore }

func (r memTeachers) Create(_ context.Context, t *academic.Teacher) error {
	t.ID = int64(len(r.m.teachers) + 1)
	r.m.teachers = append(r.m.teachers, *t)
	return nil
}
func (r memTeachers) GetByID(context.Context, int64) (*academic.Teacher, error) {
	return nil, errUnsupported
}
func (r memTeachers) Delete(context.Context, int64) error { return errUnsupported }

type memSubjects struct{ m *memStore }

func (r memSubjects) Create(_ context.Context, s *academic.Subject) error {
	s.ID = int64(len(r.m.subjects) + 1)
	r.m.subjects = append(r.m.subjects, *s)
	return nil
}
func (r memSubjects) GetByID(context.Context, int64) (*academic.Subject, error) {
	return nil, errUnsupported
}
func (r memSubjects) AssignTeacher(context.Context, int64, *int64) error { return errUnsupported }
func (r memSubjects) Delete(context.Context, int64) error                { return errUnsupported }

type memStudents struct{ m *memStore }

func (r memStudents) Create(_ context.Context, s *academic.Student) error {
	s.ID = int64(len(r.m.students) + 1)
	r.m.students = append(r.m.students, *s)
	return nil
}
func (r memStudents) GetByID(context.Context, int64) (*academic.Student, error) {
	return nil, errUnsupported
}
func (r memStudents) AssignGroup(context.Context, int64, *int64) error { return errUnsupported }
func (r memStudents) Delete(context.Context, int64) error              { return errUnsupported }

type memGrades struct{ m *memStore }

func (r memGrades) Create(ctx context.Context, g *academic.Grade) error {
	_, err := r.CreateBatch(ctx, []*academic.Grade{g})
	return err
}

func (r memGrades) CreateBatch(_ context.Context, grades []*academic.Grade) (int64, error) {
	if r.m.failGradesWith != nil {
		return 0, r.m.failGradesWith
	}
	for _, g := range grades {
		g.ID = int64(len(r.m.grades) + 1)
		r.m.grades = append(r.m.grades, *g)
	}
	return int64(len(grades)), nil
}

func (r memGrades) CountByStudent(_ context.Context, studentID int64) (int64, error) {
	var n int64
	for _, g := range r.m.grades {
		if g.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (r memGrades) Count(context.Context) (int64, error) {
	return int64(len(r.m.grades)), nil
}
