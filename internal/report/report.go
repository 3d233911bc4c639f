// Package report derives chart-ready totals from a snapshot of time entries.
package report

import (
	"math"
	"sort"
	"time"

	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/timecalc"
)

type DayTotal struct {
	Day          string  `json:"day"`
	Date         string  `json:"date"`
	TotalSeconds int64   `json:"totalSeconds"`
	Hours        float64 `json:"hours"`
	Formatted    string  `json:"formattedTime"`
}

type WeeklyReport struct {
	Start        string     `json:"start"`
	End          string     `json:"end"`
	Days         []DayTotal `json:"days"`
	TotalSeconds int64      `json:"totalSeconds"`
	Formatted    string     `json:"formattedTime"`
	YAxisMax     float64    `json:"yAxisMax"`
}

type ProjectTotal struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TotalSeconds int64   `json:"totalSeconds"`
	Hours        float64 `json:"hours"`
	Formatted    string  `json:"formattedTime"`
	Percent      float64 `json:"percent"`
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// NextWeek moves one week forward unless that week starts after now.
func NextWeek(weekStart, now time.Time) (time.Time, bool) {
	next := weekStart.AddDate(0, 0, 7)
	if next.After(now) {
		return weekStart, false
	}
	return next, true
}

// PreviousWeek moves one week back.
func PreviousWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, -7)
}

// Weekly totals the entries of the seven days starting at weekStart. Entries
// are attributed by their Date field, not by their timestamps.
func Weekly(entries []models.TimeEntry, weekStart time.Time) WeeklyReport {
	weekStart = WeekStart(weekStart)

	days := make([]DayTotal, 7)
	index := make(map[string]int, 7)
	for i := range days {
		day := weekStart.AddDate(0, 0, i)
		date := day.Format(models.DateLayout)
		days[i] = DayTotal{Day: day.Format("Mon"), Date: date}
		index[date] = i
	}

	for _, e := range entries {
		if i, ok := index[e.Date]; ok {
			days[i].TotalSeconds += e.Duration
		}
	}

	var total int64
	for i := range days {
		days[i].Hours = float64(days[i].TotalSeconds) / 3600
		days[i].Formatted = timecalc.FormatCompact(days[i].TotalSeconds)
		total += days[i].TotalSeconds
	}

	return WeeklyReport{
		Start:        days[0].Date,
		End:          days[6].Date,
		Days:         days,
		TotalSeconds: total,
		Formatted:    timecalc.FormatCompact(total),
		YAxisMax:     YAxisMax(days),
	}
}

// ByProject totals entries per known project, drops empty projects and
// sorts by time spent, largest first.
func ByProject(entries []models.TimeEntry, projects []models.Project) []ProjectTotal {
	totals := make(map[string]int64, len(projects))
	for _, e := range entries {
		totals[e.ProjectID] += e.Duration
	}

	var out []ProjectTotal
	var sum int64
	for _, p := range projects {
		secs := totals[p.ID]
		if secs <= 0 {
			continue
		}
		sum += secs
		out = append(out, ProjectTotal{
			ID:           p.ID,
			Name:         p.Name,
			TotalSeconds: secs,
			Hours:        float64(secs) / 3600,
			Formatted:    timecalc.FormatCompact(secs),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSeconds > out[j].TotalSeconds
	})

	for i := range out {
		out[i].Percent = math.Round(float64(out[i].TotalSeconds)/float64(sum)*1000) / 10
	}
	return out
}

// YAxisMax picks the chart's upper bound in hours so small totals stay visible.
func YAxisMax(days []DayTotal) float64 {
	var maxHours float64
	for _, d := range days {
		maxHours = math.Max(maxHours, d.Hours)
	}

	switch {
	case maxHours == 0:
		return 1
	case maxHours < 0.1:
		return 0.5
	case maxHours < 1:
		return 1
	default:
		return math.Max(math.Ceil(maxHours*1.2), 1)
	}
}
