package academic

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository stores groups.
type GroupRepository interface {
	// Create inserts the group and sets its ID.
	// A duplicate name fails with a constraint violation.
	Create(ctx context.Context, group *Group) error

	// GetByID returns shared.ErrGroupNotFound when the group does not exist.
	GetByID(ctx context.Context, id int64) (*Group, error)

	// Delete removes the group. Its students stay, with their group cleared.
	Delete(ctx context.Context, id int64) error
}

// TeacherRepository stores teachers.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *Teacher) error
	GetByID(ctx context.Context, id int64) (*Teacher, error)

	// Delete removes the teacher. Their subjects stay, with the teacher cleared.
	Delete(ctx context.Context, id int64) error
}

// StudentRepository stores students.
type StudentRepository interface {
	// Create inserts the student. An unknown group fails with a constraint violation.
	Create(ctx context.Context, student *Student) error
	GetByID(ctx context.Context, id int64) (*Student, error)

	// AssignGroup sets or clears (nil) the student's group.
	AssignGroup(ctx context.Context, studentID int64, groupID *int64) error

	// Delete removes the student together with all of their grades.
	Delete(ctx context.Context, id int64) error
}

// SubjectRepository stores subjects.
type SubjectRepository interface {
	Create(ctx context.Context, subject *Subject) error
	GetByID(ctx context.Context, id int64) (*Subject, error)

	// AssignTeacher sets or clears (nil) the subject's teacher.
	AssignTeacher(ctx context.Context, subjectID int64, teacherID *int64) error

	// Delete removes the subject together with all of its grades.
	Delete(ctx context.Context, id int64) error
}

// GradeRepository stores grades.
type GradeRepository interface {
	// Create inserts one grade and sets its ID.
	Create(ctx context.Context, grade *Grade) error

	// CreateBatch bulk-inserts grades and returns how many rows were written.
	// IDs are not set on the passed grades.
	CreateBatch(ctx context.Context, grades []*Grade) (int64, error)

	// CountByStudent returns the number of grades of a student.
	CountByStudent(ctx context.Context, studentID int64) (int64, error)

	// Count returns the total number of grades.
	Count(ctx context.Context) (int64, error)
}

// ReportRepository runs the fixed reporting queries. Every method is read-only
// and a single statement, so each call observes one consistent snapshot.
// No matching rows is never an error: slices come back empty and optional
// results come back nil.
type ReportRepository interface {
	// TopStudents ranks students by overall average, best first.
	// A non-positive limit means DefaultTopLimit.
	TopStudents(ctx context.Context, limit int) ([]StudentAverage, error)

	// TopStudentForSubject returns the best student in one subject, or nil.
	TopStudentForSubject(ctx context.Context, subjectName string) (*StudentAverage, error)

	// AverageForGroupInSubject averages the grades of a group's students in a subject.
	AverageForGroupInSubject(ctx context.Context, subjectName, groupName string) (*float64, error)

	// OverallAverage averages every grade in the store.
	OverallAverage(ctx context.Context) (*float64, error)

	// SubjectsByTeacher lists the subjects assigned to a teacher.
	SubjectsByTeacher(ctx context.Context, teacherFullname string) ([]string, error)

	// StudentsInGroup lists the students of a group by name.
	StudentsInGroup(ctx context.Context, groupName string) ([]string, error)

	// GroupGradesInSubject lists every grade a group's students got in a subject.
	GroupGradesInSubject(ctx context.Context, groupName, subjectName string) ([]GradeEntry, error)

	// AverageByTeacher averages the grades across all subjects of a teacher.
	AverageByTeacher(ctx context.Context, teacherFullname string) (*float64, error)

	// SubjectsForStudent lists the distinct subjects a student has grades in.
	SubjectsForStudent(ctx context.Context, studentFullname string) ([]string, error)

	// SubjectsForStudentByTeacher lists the distinct subjects a teacher
	// teaches that the student has grades in.
	SubjectsForStudentByTeacher(ctx context.Context, studentFullname, teacherFullname string) ([]string, error)

	// ExampleParams picks one existing value per filter dimension.
	ExampleParams(ctx context.Context) (ExampleParams, error)
}

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Groups() GroupRepository
	Teachers() TeacherRepository
	Students() StudentRepository
	Subjects() SubjectRepository
	Grades() GradeRepository
	Reports() ReportRepository

	// Truncate removes every row from every table and restarts the ids.
	Truncate(ctx context.Context) error
}

// TxRunner runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back entirely otherwise.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
