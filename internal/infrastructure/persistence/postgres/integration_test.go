package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// testDatabaseEnv names a disposable database. Every test truncates it.
const testDatabaseEnv = "ACADEMIC_TEST_DATABASE_URL"

func openTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv(testDatabaseEnv)
	if url == "" {
		t.Skipf("%s is not set", testDatabaseEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := DefaultConfig()
	cfg.URL = url
	conn, err := NewConnection(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	_, err = NewMigrator(conn).Migrate(ctx)
	require.NoError(t, err)

	store := NewStore(conn)
	require.NoError(t, store.Truncate(ctx))
	return store
}

type fixture struct {
	group    *academic.Group
	teacher  *academic.Teacher
	subject  *academic.Subject
	alice    *academic.Student
	bob      *academic.Student
	received time.Time
}

// seedFixture creates group CS-01 with Alice (80) and Bob (100) graded in Math
// by Dr. Smith.
func seedFixture(t *testing.T, ctx context.Context, s academic.Store) fixture {
	t.Helper()

	f := fixture{received: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}
	var err error

	f.group, err = academic.NewGroup("CS-01")
	require.NoError(t, err)
	require.NoError(t, s.Groups().Create(ctx, f.group))

	f.teacher, err = academic.NewTeacher("Dr. Smith")
	require.NoError(t, err)
	require.NoError(t, s.Teachers().Create(ctx, f.teacher))

	f.subject, err = academic.NewSubject("Math", academic.Ref(f.teacher.ID))
	require.NoError(t, err)
	require.NoError(t, s.Subjects().Create(ctx, f.subject))

	f.alice, err = academic.NewStudent("Alice", academic.Ref(f.group.ID))
	require.NoError(t, err)
	require.NoError(t, s.Students().Create(ctx, f.alice))

	f.bob, err = academic.NewStudent("Bob", academic.Ref(f.group.ID))
	require.NoError(t, err)
	require.NoError(t, s.Students().Create(ctx, f.bob))

	for _, g := range []struct {
		student *academic.Student
		score   int
	}{{f.alice, 80}, {f.bob, 100}} {
		grade, err := academic.NewGrade(g.student.ID, f.subject.ID, g.score, f.received)
		require.NoError(t, err)
		require.NoError(t, s.Grades().Create(ctx, grade))
	}

	return f
}

func TestIntegration_Reports(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, ctx, store)
	reports := store.Reports()

	avg, err := reports.AverageForGroupInSubject(ctx, "Math", "CS-01")
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 90.0, *avg, 0.001)

	top, err := reports.TopStudents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Bob", top[0].Fullname)
	assert.InDelta(t, 100.0, top[0].Average, 0.001)

	best, err := reports.TopStudentForSubject(ctx, "Math")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, f.bob.ID, best.StudentID)

	names, err := reports.StudentsInGroup(ctx, "CS-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, names)

	entries, err := reports.GroupGradesInSubject(ctx, "CS-01", "Math")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0].Fullname)
	assert.Equal(t, 80, entries[0].Score)
	assert.True(t, f.received.Equal(entries[0].ReceivedAt))

	overall, err := reports.OverallAverage(ctx)
	require.NoError(t, err)
	require.NotNil(t, overall)
	assert.InDelta(t, 90.0, *overall, 0.001)

	params, err := reports.ExampleParams(ctx)
	require.NoError(t, err)
	require.NotNil(t, params.SubjectName)
	require.NotNil(t, params.StudentFullname)
	assert.Equal(t, "Math", *params.SubjectName)
	assert.Equal(t, "Alice", *params.StudentFullname)
}

func TestIntegration_TeacherWithoutGrades(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	teacher, err := academic.NewTeacher("Dr. X")
	require.NoError(t, err)
	require.NoError(t, store.Teachers().Create(ctx, teacher))

	physics, err := academic.NewSubject("Physics", academic.Ref(teacher.ID))
	require.NoError(t, err)
	require.NoError(t, store.Subjects().Create(ctx, physics))

	avg, err := store.Reports().AverageByTeacher(ctx, "Dr. X")
	require.NoError(t, err)
	assert.Nil(t, avg)

	subjects, err := store.Reports().SubjectsByTeacher(ctx, "Dr. X")
	require.NoError(t, err)
	assert.Equal(t, []string{"Physics"}, subjects)
}

func TestIntegration_DistinctSubjects(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, ctx, store)

	extra, err := academic.NewGrade(f.alice.ID, f.subject.ID, 70, f.received.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, store.Grades().Create(ctx, extra))

	subjects, err := store.Reports().SubjectsForStudent(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Math"}, subjects)

	subjects, err = store.Reports().SubjectsForStudentByTeacher(ctx, "Alice", "Dr. Smith")
	require.NoError(t, err)
	assert.Equal(t, []string{"Math"}, subjects)
}

func TestIntegration_UnknownNames(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedFixture(t, ctx, store)
	reports := store.Reports()

	best, err := reports.TopStudentForSubject(ctx, "Alchemy")
	require.NoError(t, err)
	assert.Nil(t, best)

	avg, err := reports.AverageForGroupInSubject(ctx, "Alchemy", "CS-01")
	require.NoError(t, err)
	assert.Nil(t, avg)

	names, err := reports.StudentsInGroup(ctx, "ZZ-99")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)

	entries, err := reports.GroupGradesInSubject(ctx, "ZZ-99", "Math")
	require.NoError(t, err)
	assert.Empty(t, entries)

	subjects, err := reports.SubjectsByTeacher(ctx, "Dr. Nobody")
	require.NoError(t, err)
	assert.Empty(t, subjects)
	assert.NotNil(t, subjects)

	avg, err = reports.AverageByTeacher(ctx, "Dr. Nobody")
	require.NoError(t, err)
	assert.Nil(t, avg)

	subjects, err = reports.SubjectsForStudent(ctx, "Mallory")
	require.NoError(t, err)
	assert.Empty(t, subjects)
	assert.NotNil(t, subjects)

	subjects, err = reports.SubjectsForStudentByTeacher(ctx, "Mallory", "Dr. Smith")
	require.NoError(t, err)
	assert.Empty(t, subjects)

	subjects, err = reports.SubjectsForStudentByTeacher(ctx, "Alice", "Dr. Nobody")
	require.NoError(t, err)
	assert.Empty(t, subjects)

	// Filters are exact and case-sensitive.
	subjects, err = reports.SubjectsByTeacher(ctx, "dr. smith")
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestIntegration_DeleteRules(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, ctx, store)

	require.NoError(t, store.Groups().Delete(ctx, f.group.ID))
	alice, err := store.Students().GetByID(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Nil(t, alice.GroupID)

	require.NoError(t, store.Teachers().Delete(ctx, f.teacher.ID))
	subject, err := store.Subjects().GetByID(ctx, f.subject.ID)
	require.NoError(t, err)
	assert.Nil(t, subject.TeacherID)

	require.NoError(t, store.Students().Delete(ctx, f.bob.ID))
	n, err := store.Grades().CountByStudent(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := store.Grades().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestIntegration_DeleteSubjectCascadesOnlyItsGrades(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, ctx, store)

	physics, err := academic.NewSubject("Physics", academic.Ref(f.teacher.ID))
	require.NoError(t, err)
	require.NoError(t, store.Subjects().Create(ctx, physics))

	grade, err := academic.NewGrade(f.alice.ID, physics.ID, 60, f.received)
	require.NoError(t, err)
	require.NoError(t, store.Grades().Create(ctx, grade))

	subjects, err := store.Reports().SubjectsForStudent(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "Physics"}, subjects)

	require.NoError(t, store.Subjects().Delete(ctx, f.subject.ID))

	total, err := store.Grades().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	n, err := store.Grades().CountByStudent(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = store.Grades().CountByStudent(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	subjects, err = store.Reports().SubjectsForStudent(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Physics"}, subjects)

	// Students and the teacher are untouched.
	_, err = store.Students().GetByID(ctx, f.bob.ID)
	require.NoError(t, err)
	_, err = store.Teachers().GetByID(ctx, f.teacher.ID)
	require.NoError(t, err)
}

func TestIntegration_RankingTiesFavourLowerID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	teacher, err := academic.NewTeacher("Dr. Smith")
	require.NoError(t, err)
	require.NoError(t, store.Teachers().Create(ctx, teacher))
	subject, err := academic.NewSubject("Math", academic.Ref(teacher.ID))
	require.NoError(t, err)
	require.NoError(t, store.Subjects().Create(ctx, subject))

	// Zed is created first, so the lower id sorts before Amy despite the name.
	received := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	var ids []int64
	for _, st := range []struct {
		name   string
		scores []int
	}{
		{"Zed", []int{80, 100}},
		{"Amy", []int{90, 90}},
	} {
		student, err := academic.NewStudent(st.name, nil)
		require.NoError(t, err)
		require.NoError(t, store.Students().Create(ctx, student))
		ids = append(ids, student.ID)
		for _, score := range st.scores {
			grade, err := academic.NewGrade(student.ID, subject.ID, score, received)
			require.NoError(t, err)
			require.NoError(t, store.Grades().Create(ctx, grade))
		}
	}
	require.Less(t, ids[0], ids[1])

	top, err := store.Reports().TopStudents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, []int64{ids[0], ids[1]}, []int64{top[0].StudentID, top[1].StudentID})
	assert.InDelta(t, top[0].Average, top[1].Average, 0.0001)

	top, err = store.Reports().TopStudents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Zed", top[0].Fullname)

	best, err := store.Reports().TopStudentForSubject(ctx, "Math")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, ids[0], best.StudentID)
}

func TestIntegration_ConstraintsRollBackTransaction(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.RunInTx(ctx, func(ctx context.Context, s academic.Store) error {
		if err := s.Groups().Create(ctx, &academic.Group{Name: "CS-01"}); err != nil {
			return err
		}
		return s.Groups().Create(ctx, &academic.Group{Name: "CS-01"})
	})
	require.Error(t, err)
	assert.True(t, shared.IsConstraintViolation(err))

	params, err := store.Reports().ExampleParams(ctx)
	require.NoError(t, err)
	assert.Nil(t, params.GroupName)

	err = store.Grades().Create(ctx, &academic.Grade{StudentID: 999, SubjectID: 999, Score: 90, ReceivedAt: time.Now().UTC()})
	assert.True(t, IsForeignKeyViolation(err))
}
