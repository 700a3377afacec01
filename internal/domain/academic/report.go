package academic

import (
	"time"
)

// DefaultTopLimit is the number of students TopStudents returns when no
// positive limit is given.
const DefaultTopLimit = 5

// StudentAverage is a ranking row.
type StudentAverage struct {
	StudentID int64
	Fullname  string
	Average   float64
}

// GradeEntry is one grade of a group listing.
type GradeEntry struct {
	Fullname   string
	Score      int
	ReceivedAt time.Time
}

// ExampleParams holds one existing value per filter dimension. A nil field
// means the corresponding table is empty.
type ExampleParams struct {
	SubjectName     *string
	GroupName       *string
	TeacherFullname *string
	StudentFullname *string
}

// RoundedMean returns the arithmetic mean of scores rounded half away from
// zero to two decimals, the way the store rounds AVG. It returns nil for an
// empty slice: no grades is "no data", not zero.
func RoundedMean(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}

	var sum int64
	for _, s := range scores {
		sum += int64(s)
	}
	n := int64(len(scores))

	num := sum * 100
	negative := num < 0
	if negative {
		num = -num
	}
	cents := (2*num + n) / (2 * n)
	if negative {
		cents = -cents
	}

	avg := float64(cents) / 100
	return &avg
}
