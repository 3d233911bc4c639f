// Package timer implements the live stopwatch that turns a running session
// into a time entry when stopped.
package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/store"
	"Mansoor88-6/time-tracker/internal/timecalc"
	"Mansoor88-6/time-tracker/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

var (
	ErrAlreadyRunning = errors.New("timer is already running")
	ErrNotRunning     = errors.New("timer is not running")
	ErrNotPaused      = errors.New("timer is not paused")
	ErrNothingToSave  = errors.New("no time has elapsed")
)

// EntryWriter is the part of the entry store the timer writes through.
type EntryWriter interface {
	AddChecked(ctx context.Context, entry models.TimeEntry, check store.Check) error
}

type Status struct {
	State       State     `json:"state"`
	ProjectID   string    `json:"projectId,omitempty"`
	ProjectName string    `json:"projectName,omitempty"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime,omitzero"`
	Elapsed     int64     `json:"elapsed"`
	Clock       string    `json:"clock"`
}

type Timer struct {
	mu          sync.Mutex
	state       State
	projectID   string
	projectName string
	description string
	startTime   time.Time
	pausedAt    int64

	entries  EntryWriter
	projects []models.Project
	now      func() time.Time
	logger   *zap.Logger
}

func New(entries EntryWriter, projects []models.Project, logger *zap.Logger) *Timer {
	return &Timer{
		state:    StateIdle,
		entries:  entries,
		projects: projects,
		now:      time.Now,
		logger:   logger,
	}
}

// Start begins a new session for a project.
func (t *Timer) Start(req models.StartTimerRequest) (Status, error) {
	if err := validation.ValidateTimer(&req, t.projects); err != nil {
		return Status{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateIdle {
		return t.statusLocked(), ErrAlreadyRunning
	}

	t.state = StateRunning
	t.projectID = req.ProjectID
	t.projectName = projectName(req.ProjectID, t.projects)
	t.description = req.Description
	t.startTime = t.now()
	t.pausedAt = 0

	t.logger.Info("Timer started",
		zap.String("project_id", t.projectID),
		zap.Time("start_time", t.startTime),
	)
	return t.statusLocked(), nil
}

// Pause freezes the elapsed time.
func (t *Timer) Pause() (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return t.statusLocked(), ErrNotRunning
	}
	t.pausedAt = t.elapsedLocked()
	t.state = StatePaused
	return t.statusLocked(), nil
}

// Resume continues a paused session. The start time is shifted back by the
// elapsed time so the final entry has no gap.
func (t *Timer) Resume() (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePaused {
		return t.statusLocked(), ErrNotPaused
	}
	t.startTime = t.now().Add(-time.Duration(t.pausedAt) * time.Second)
	t.state = StateRunning
	return t.statusLocked(), nil
}

// Stop saves the session as an entry and resets the timer. On an overlap the
// timer keeps its state so the user can adjust and retry.
func (t *Timer) Stop(ctx context.Context) (models.TimeEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		return models.TimeEntry{}, ErrNotRunning
	}

	elapsed := t.elapsedLocked()
	if elapsed <= 0 {
		return models.TimeEntry{}, ErrNothingToSave
	}

	start := t.startTime
	end := start.Add(time.Duration(elapsed) * time.Second)
	entry := models.TimeEntry{
		ID:          uuid.NewString(),
		ProjectID:   t.projectID,
		ProjectName: t.projectName,
		Description: t.description,
		StartTime:   start,
		EndTime:     end,
		Duration:    elapsed,
		Date:        start.Format(models.DateLayout),
	}

	candidate := timecalc.Interval{Start: start, End: end}
	err := t.entries.AddChecked(ctx, entry, func(current []models.TimeEntry) error {
		if timecalc.Overlaps(candidate, current, "") {
			return timecalc.ErrOverlap
		}
		return nil
	})
	if err != nil {
		return models.TimeEntry{}, err
	}

	t.logger.Info("Timer stopped",
		zap.String("entry_id", entry.ID),
		zap.String("elapsed", timecalc.FormatClock(elapsed)),
	)
	t.reset()
	return entry, nil
}

// Reset discards the current session without saving.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Timer) reset() {
	t.state = StateIdle
	t.projectID = ""
	t.projectName = ""
	t.description = ""
	t.startTime = time.Time{}
	t.pausedAt = 0
}

func (t *Timer) elapsedLocked() int64 {
	switch t.state {
	case StateRunning:
		return int64(t.now().Sub(t.startTime) / time.Second)
	case StatePaused:
		return t.pausedAt
	default:
		return 0
	}
}

func (t *Timer) statusLocked() Status {
	elapsed := t.elapsedLocked()
	return Status{
		State:       t.state,
		ProjectID:   t.projectID,
		ProjectName: t.projectName,
		Description: t.description,
		StartTime:   t.startTime,
		Elapsed:     elapsed,
		Clock:       timecalc.FormatClock(elapsed),
	}
}

func projectName(id string, projects []models.Project) string {
	for _, p := range projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
