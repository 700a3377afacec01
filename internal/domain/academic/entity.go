// Package academic contains the domain model of the academic records schema:
// groups, teachers, students, subjects and the grades that tie them together.
// There are no external dependencies here.
package academic

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// Column limits, mirrored by the VARCHAR sizes of the schema.
const (
	MaxGroupNameLength   = 100
	MaxFullnameLength    = 100
	MaxSubjectNameLength = 150
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Group is a study group. Its name is unique across the store.
type Group struct {
	ID   int64
	Name string
}

// Teacher teaches zero or more subjects.
type Teacher struct {
	ID       int64
	Fullname string
}

// Student optionally belongs to a group. GroupID is nil when the student has
// no group, either from creation or because the group was deleted.
type Student struct {
	ID       int64
	Fullname string
	GroupID  *int64
}

// Subject is optionally taught by a teacher. TeacherID is nil when no teacher
// is assigned or the teacher was deleted.
type Subject struct {
	ID        int64
	Name      string
	TeacherID *int64
}

// Grade is a single score a student received in a subject. A grade is owned by
// both its student and its subject and disappears with either of them.
type Grade struct {
	ID         int64
	StudentID  int64
	SubjectID  int64
	Score      int
	ReceivedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// CONSTRUCTORS
// ══════════════════════════════════════════════════════════════════════════════

// NewGroup validates the name and returns an unsaved group.
func NewGroup(name string) (*Group, error) {
	if err := validateName("group", "name", name, MaxGroupNameLength); err != nil {
		return nil, err
	}
	return &Group{Name: name}, nil
}

// NewTeacher validates the full name and returns an unsaved teacher.
func NewTeacher(fullname string) (*Teacher, error) {
	if err := validateName("teacher", "fullname", fullname, MaxFullnameLength); err != nil {
		return nil, err
	}
	return &Teacher{Fullname: fullname}, nil
}

// NewStudent returns an unsaved student, optionally placed in a group.
func NewStudent(fullname string, groupID *int64) (*Student, error) {
	if err := validateName("student", "fullname", fullname, MaxFullnameLength); err != nil {
		return nil, err
	}
	if err := validateRef("student", "group_id", groupID); err != nil {
		return nil, err
	}
	return &Student{Fullname: fullname, GroupID: groupID}, nil
}

// NewSubject returns an unsaved subject, optionally assigned to a teacher.
func NewSubject(name string, teacherID *int64) (*Subject, error) {
	if err := validateName("subject", "name", name, MaxSubjectNameLength); err != nil {
		return nil, err
	}
	if err := validateRef("subject", "teacher_id", teacherID); err != nil {
		return nil, err
	}
	return &Subject{Name: name, TeacherID: teacherID}, nil
}

// NewGrade returns an unsaved grade. The score is stored as given; no range is
// enforced. A zero receivedAt is replaced by the current UTC time.
func NewGrade(studentID, subjectID int64, score int, receivedAt time.Time) (*Grade, error) {
	if studentID <= 0 {
		return nil, shared.NewDomainError("grade", "Validate", shared.ErrInvalidID, "student_id must be positive")
	}
	if subjectID <= 0 {
		return nil, shared.NewDomainError("grade", "Validate", shared.ErrInvalidID, "subject_id must be positive")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	return &Grade{
		StudentID:  studentID,
		SubjectID:  subjectID,
		Score:      score,
		ReceivedAt: receivedAt.UTC(),
	}, nil
}

// Ref returns a reference to id, for optional foreign keys.
func Ref(id int64) *int64 {
	return &id
}

func validateName(domain, field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return shared.NewDomainError(domain, "Validate", shared.ErrEmptyValue, field+" is required")
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		return shared.NewDomainError(domain, "Validate", shared.ErrValidation,
			fmt.Sprintf("%s is %d characters long, limit is %d", field, n, maxLen))
	}
	return nil
}

func validateRef(domain, field string, id *int64) error {
	if id != nil && *id <= 0 {
		return shared.NewDomainError(domain, "Validate", shared.ErrInvalidID, field+" must be positive")
	}
	return nil
}
