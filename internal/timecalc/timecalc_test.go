package timecalc

import (
	"testing"
	"time"

	"Mansoor88-6/time-tracker/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDurationSplitRoundTrip(t *testing.T) {
	for h := 0; h <= 24; h++ {
		for m := 0; m <= 59; m += 7 {
			for s := 0; s <= 59; s += 11 {
				if h+m+s == 0 {
					continue
				}
				d := Duration(h, m, s)
				gh, gm, gs := Split(d)
				assert.Equal(t, []int{h, m, s}, []int{gh, gm, gs}, "duration %d", d)
			}
		}
	}
}

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 4, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	existing := []models.TimeEntry{
		{ID: "a", StartTime: at(10, 0), EndTime: at(11, 0)},
	}

	tests := []struct {
		name      string
		candidate Interval
		exclude   string
		expected  bool
	}{
		{"nested inside", Interval{at(10, 30), at(10, 45)}, "", true},
		{"starts inside", Interval{at(10, 30), at(12, 0)}, "", true},
		{"ends inside", Interval{at(9, 0), at(10, 30)}, "", true},
		{"covers existing", Interval{at(9, 0), at(12, 0)}, "", true},
		{"back to back after counts as overlap", Interval{at(11, 0), at(12, 0)}, "", true},
		{"back to back before counts as overlap", Interval{at(9, 0), at(10, 0)}, "", true},
		{"one second after", Interval{at(11, 0).Add(time.Second), at(12, 0)}, "", false},
		{"entirely before", Interval{at(8, 0), at(9, 0)}, "", false},
		{"excluded entry ignored", Interval{at(10, 30), at(10, 45)}, "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.candidate, existing, tt.exclude))
		})
	}
}

func TestOverlapsEmptyCollection(t *testing.T) {
	assert.False(t, Overlaps(Interval{at(10, 0), at(11, 0)}, nil, ""))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "01:02:03", FormatClock(3723))
	assert.Equal(t, "1h 2m 3s", FormatHMS(3723))

	compact := map[int64]string{
		0:    "0h",
		45:   "45s",
		300:  "5m",
		303:  "5m 3s",
		7200: "2h",
		7500: "2h 5m",
		7503: "2h 5m 3s",
		7203: "2h 0m 3s",
	}
	for in, want := range compact {
		assert.Equal(t, want, FormatCompact(in), "input %d", in)
	}
}
