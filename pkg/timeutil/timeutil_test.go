package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStored(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2024, 3, 1, 14, 30, 15, 999_000_000, zone)

	got := Stored(in)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC), got)
}

func TestFormat(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2024, 3, 2, 2, 0, 0, 0, zone)

	assert.Equal(t, "2024-03-01", FormatDateStr(in))
	assert.Equal(t, "2024-03-01 21:00:00", FormatDateTimeStr(in))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, DaysBetween(a, a.AddDate(0, 0, 10)))
	assert.Equal(t, -2, DaysBetween(a, a.AddDate(0, 0, -2)))
	assert.Equal(t, 0, DaysBetween(a, a.Add(23*time.Hour)))
}
