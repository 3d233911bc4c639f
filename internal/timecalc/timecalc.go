// Package timecalc holds the pure duration and interval helpers shared by the
// entry form, the live timer and the reports.
package timecalc

import (
	"errors"
	"fmt"
	"time"

	"Mansoor88-6/time-tracker/internal/models"
)

// Duration converts an hours/minutes/seconds triple into whole seconds.
func Duration(hours, minutes, seconds int) int64 {
	return int64(hours)*3600 + int64(minutes)*60 + int64(seconds)
}

// Split is the inverse of Duration.
func Split(d int64) (hours, minutes, seconds int) {
	return int(d / 3600), int((d % 3600) / 60), int(d % 60)
}

// Interval is a candidate [Start, End) span of work.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether candidate collides with any entry other than the
// one identified by excludeID (empty excludes nothing).
//
// Three conditions are checked per entry: the candidate start lies within the
// entry, the candidate end lies within the entry, or the candidate covers the
// entry. The "within" checks are inclusive at both ends, so a candidate that
// starts exactly when an entry ends is reported as overlapping.
func Overlaps(candidate Interval, entries []models.TimeEntry, excludeID string) bool {
	for _, e := range entries {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if within(candidate.Start, e.StartTime, e.EndTime) ||
			within(candidate.End, e.StartTime, e.EndTime) ||
			(!candidate.Start.After(e.StartTime) && !candidate.End.Before(e.EndTime)) {
			return true
		}
	}
	return false
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// FormatClock renders a stopwatch reading, e.g. 01:02:03.
func FormatClock(d int64) string {
	h, m, s := Split(d)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHMS renders the long form used in notifications, e.g. 1h 2m 3s.
func FormatHMS(d int64) string {
	h, m, s := Split(d)
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatCompact drops zero components: 0h, 45s, 5m 3s, 2h, 2h 5m, 2h 5m 3s.
func FormatCompact(d int64) string {
	if d == 0 {
		return "0h"
	}
	h, m, s := Split(d)
	switch {
	case h == 0 && m == 0:
		return fmt.Sprintf("%ds", s)
	case h == 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0 && s == 0:
		return fmt.Sprintf("%dh", h)
	case s == 0:
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
}

// ErrOverlap is returned when a new or edited entry collides with an existing one.
var ErrOverlap = errors.New("time entry overlaps with an existing entry")
