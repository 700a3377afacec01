package command

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/pkg/timeutil"
)

// maxNameAttempts bounds the search for an unused random name before a
// numeric suffix is appended.
const maxNameAttempts = 100

// SeedOptions sizes the generated population.
type SeedOptions struct {
	Groups              int
	StudentsMin         int
	StudentsMax         int
	SubjectsMin         int
	SubjectsMax         int
	TeachersMin         int
	TeachersMax         int
	MaxGradesPerStudent int
	ScoreMin            int
	ScoreMax            int

	// History is how far before now grade timestamps may go.
	History time.Duration

	// RandomSeed makes the plan reproducible; 0 picks a random seed.
	RandomSeed uint64
}

// DefaultSeedOptions returns the stock population: 3 groups, 30-50 students,
// 5-8 subjects, 3-5 teachers and up to 20 grades of 60-100 per student over
// the last two years.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		Groups:              3,
		StudentsMin:         30,
		StudentsMax:         50,
		SubjectsMin:         5,
		SubjectsMax:         8,
		TeachersMin:         3,
		TeachersMax:         5,
		MaxGradesPerStudent: 20,
		ScoreMin:            60,
		ScoreMax:            100,
		History:             2 * 365 * 24 * time.Hour,
	}
}

// Validate validates the options.
func (o SeedOptions) Validate() error {
	var errs []error
	if o.Groups < 0 {
		errs = append(errs, errors.New("groups cannot be negative"))
	}
	for _, r := range []struct {
		name   string
		lo, hi int
	}{
		{"students", o.StudentsMin, o.StudentsMax},
		{"subjects", o.SubjectsMin, o.SubjectsMax},
		{"teachers", o.TeachersMin, o.TeachersMax},
		{"score", o.ScoreMin, o.ScoreMax},
	} {
		if r.name != "score" && r.lo < 0 {
			errs = append(errs, fmt.Errorf("%s minimum cannot be negative", r.name))
		}
		if r.lo > r.hi {
			errs = append(errs, fmt.Errorf("%s minimum %d exceeds maximum %d", r.name, r.lo, r.hi))
		}
	}
	if o.MaxGradesPerStudent < 1 {
		errs = append(errs, errors.New("max grades per student must be at least 1"))
	}
	if o.History <= 0 {
		errs = append(errs, errors.New("history must be positive"))
	}
	return errors.Join(errs...)
}

// PlannedSubject references its teacher by index into SeedPlan.Teachers.
type PlannedSubject struct {
	Name    string
	Teacher int
}

// PlannedStudent references its group by index into SeedPlan.Groups.
type PlannedStudent struct {
	Fullname string
	Group    int
}

// PlannedGrade references its student and subject by index.
type PlannedGrade struct {
	Student    int
	Subject    int
	Score      int
	ReceivedAt time.Time
}

// SeedPlan is a complete population, generated before anything is written.
type SeedPlan struct {
	Groups   []string
	Teachers []string
	Subjects []PlannedSubject
	Students []PlannedStudent
	Grades   []PlannedGrade
}

// ExpectedAverage is the mean of every planned score rounded to two decimals,
// or nil when the plan has no grades.
func (p SeedPlan) ExpectedAverage() *float64 {
	scores := make([]int, len(p.Grades))
	for i, g := range p.Grades {
		scores[i] = g.Score
	}
	return academic.RoundedMean(scores)
}

// BuildSeedPlan draws a population from faker. It does no I/O, so the same
// seed, options and now always give the same plan. Subjects are only planned
// when there are teachers, students only when there are groups, and grades
// only when both students and subjects exist.
func BuildSeedPlan(opts SeedOptions, faker *gofakeit.Faker, now time.Time) (SeedPlan, error) {
	if err := opts.Validate(); err != nil {
		return SeedPlan{}, fmt.Errorf("seed_plan: %w", err)
	}
	if now.IsZero() {
		now = timeutil.Now()
	}
	now = now.UTC()

	var plan SeedPlan

	// Groups: two capitalised words and a two-digit number, e.g. "RiverStone-42".
	plan.Groups = uniqueNames(opts.Groups, func() string {
		return fmt.Sprintf("%s%s-%d", capitalize(faker.Word()), capitalize(faker.Word()), faker.IntRange(10, 99))
	}, academic.MaxGroupNameLength)

	teachers := faker.IntRange(opts.TeachersMin, opts.TeachersMax)
	plan.Teachers = make([]string, teachers)
	for i := range plan.Teachers {
		plan.Teachers[i] = clip(faker.Name(), academic.MaxFullnameLength)
	}

	if len(plan.Teachers) > 0 {
		names := uniqueNames(faker.IntRange(opts.SubjectsMin, opts.SubjectsMax), func() string {
			return capitalize(fmt.Sprintf("%s %s %s", faker.Adjective(), faker.BuzzWord(), faker.Noun()))
		}, academic.MaxSubjectNameLength)

		plan.Subjects = make([]PlannedSubject, len(names))
		for i, name := range names {
			plan.Subjects[i] = PlannedSubject{Name: name, Teacher: pick(faker, len(plan.Teachers))}
		}
	}

	if len(plan.Groups) > 0 {
		plan.Students = make([]PlannedStudent, faker.IntRange(opts.StudentsMin, opts.StudentsMax))
		for i := range plan.Students {
			plan.Students[i] = PlannedStudent{
				Fullname: clip(faker.Name(), academic.MaxFullnameLength),
				Group:    pick(faker, len(plan.Groups)),
			}
		}
	}

	if len(plan.Students) > 0 && len(plan.Subjects) > 0 {
		from := now.Add(-opts.History)
		for s := range plan.Students {
			n := faker.IntRange(1, opts.MaxGradesPerStudent)
			for range n {
				plan.Grades = append(plan.Grades, PlannedGrade{
					Student:    s,
					Subject:    pick(faker, len(plan.Subjects)),
					Score:      faker.IntRange(opts.ScoreMin, opts.ScoreMax),
					ReceivedAt: timeutil.Stored(faker.DateRange(from, now)),
				})
			}
		}
	}

	return plan, nil
}

// uniqueNames draws n distinct names. After maxNameAttempts collisions in a
// row the candidate gets a numeric suffix instead.
func uniqueNames(n int, draw func() string, maxLen int) []string {
	seen := make(map[string]struct{}, n)
	names := make([]string, 0, n)

	for len(names) < n {
		var name string
		for attempt := 0; ; attempt++ {
			name = clip(draw(), maxLen)
			if _, dup := seen[name]; !dup {
				break
			}
			if attempt >= maxNameAttempts {
				suffix := fmt.Sprintf(" %d", len(names)+1)
				name = clip(name, maxLen-len(suffix)) + suffix
				break
			}
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func pick(faker *gofakeit.Faker, n int) int {
	return faker.IntRange(0, n-1)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// clip shortens s to at most maxLen runes.
func clip(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
