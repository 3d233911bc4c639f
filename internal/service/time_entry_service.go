package service

import (
	"context"
	"fmt"
	"time"

	"Mansoor88-6/time-tracker/internal/chunk"
	"Mansoor88-6/time-tracker/internal/export"
	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/store"
	"Mansoor88-6/time-tracker/internal/timecalc"
	"Mansoor88-6/time-tracker/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultStartHour is the local hour manual entries begin at.
const DefaultStartHour = 9

const defaultPageSize = 50

// OverlapMessage is shown to users when a save collides with another entry.
const OverlapMessage = "This time entry overlaps with an existing entry. Please adjust the time."

type TimeEntryService struct {
	store    *store.Store
	projects []models.Project
	loc      *time.Location
	logger   *zap.Logger
}

func NewTimeEntryService(st *store.Store, projects []models.Project, logger *zap.Logger) *TimeEntryService {
	return &TimeEntryService{
		store:    st,
		projects: projects,
		loc:      time.Local,
		logger:   logger,
	}
}

func (s *TimeEntryService) Projects() []models.Project {
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// CreateManual saves a manually entered block of time starting at 09:00 on
// the requested day.
func (s *TimeEntryService) CreateManual(ctx context.Context, req *models.CreateTimeEntryRequest) (models.TimeEntry, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return models.TimeEntry{}, err
	}
	entry.ID = uuid.NewString()

	if err := s.store.AddChecked(ctx, entry, overlapCheck(entry, "")); err != nil {
		return models.TimeEntry{}, err
	}

	s.logger.Info("Time entry created",
		zap.String("entry_id", entry.ID),
		zap.String("project_id", entry.ProjectID),
		zap.Int64("duration", entry.Duration),
	)
	return entry, nil
}

// Update replaces the values of an existing entry. The entry keeps its id and
// its position in the list.
func (s *TimeEntryService) Update(ctx context.Context, id string, req *models.UpdateTimeEntryRequest) (models.TimeEntry, error) {
	if _, ok := s.store.Get(id); !ok {
		return models.TimeEntry{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	entry, err := s.buildEntry(req)
	if err != nil {
		return models.TimeEntry{}, err
	}
	entry.ID = id

	if err := s.store.UpdateChecked(ctx, entry, overlapCheck(entry, id)); err != nil {
		return models.TimeEntry{}, err
	}

	s.logger.Info("Time entry updated", zap.String("entry_id", id))
	return entry, nil
}

func (s *TimeEntryService) Delete(ctx context.Context, id string) (store.UndoToken, models.TimeEntry, error) {
	token, entry, err := s.store.Delete(ctx, id)
	if err != nil {
		return "", models.TimeEntry{}, err
	}
	s.logger.Info("Time entry deleted", zap.String("entry_id", id))
	return token, entry, nil
}

func (s *TimeEntryService) Restore(ctx context.Context, token store.UndoToken) (models.TimeEntry, error) {
	entry, err := s.store.Restore(ctx, token)
	if err != nil {
		return models.TimeEntry{}, err
	}
	s.logger.Info("Time entry restored", zap.String("entry_id", entry.ID))
	return entry, nil
}

func (s *TimeEntryService) Get(id string) (models.TimeEntry, error) {
	entry, ok := s.store.Get(id)
	if !ok {
		return models.TimeEntry{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return entry, nil
}

func (s *TimeEntryService) List(limit, offset int) []models.TimeEntry {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Page(limit, offset)
}

// Count returns the total number of stored entries.
func (s *TimeEntryService) Count() int {
	return s.store.Len()
}

func (s *TimeEntryService) All() []models.TimeEntry {
	return s.store.List()
}

func (s *TimeEntryService) buildEntry(req *models.CreateTimeEntryRequest) (models.TimeEntry, error) {
	if err := validation.ValidateEntry(req, s.projects); err != nil {
		return models.TimeEntry{}, err
	}

	day, err := time.ParseInLocation(models.DateLayout, req.Date, s.loc)
	if err != nil {
		return models.TimeEntry{}, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	duration := timecalc.Duration(req.Hours, req.Minutes, req.Seconds)
	start := time.Date(day.Year(), day.Month(), day.Day(), DefaultStartHour, 0, 0, 0, s.loc)

	return models.TimeEntry{
		ProjectID:   req.ProjectID,
		ProjectName: s.projectName(req.ProjectID),
		Description: req.Description,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(duration) * time.Second),
		Duration:    duration,
		Date:        req.Date,
	}, nil
}

func (s *TimeEntryService) projectName(id string) string {
	for _, p := range s.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

func overlapCheck(entry models.TimeEntry, excludeID string) store.Check {
	candidate := timecalc.Interval{Start: entry.StartTime, End: entry.EndTime}
	return func(current []models.TimeEntry) error {
		if timecalc.Overlaps(candidate, current, excludeID) {
			return timecalc.ErrOverlap
		}
		return nil
	}
}

// ExportColumns fixes the order and headers of the time entry workbook.
var ExportColumns = []export.Column{
	{Key: "date", Header: "Date"},
	{Key: "project", Header: "Project"},
	{Key: "description", Header: "Description"},
	{Key: "start", Header: "Start"},
	{Key: "end", Header: "End"},
	{Key: "durationSeconds", Header: "Duration (s)"},
	{Key: "duration", Header: "Duration"},
}

// ExportOptions describes the default time entry workbook.
func ExportOptions() export.Options {
	return export.Options{
		FileName:   "time-entries.xlsx",
		SheetName:  "Time Entries",
		Columns:    ExportColumns,
		DateFields: []string{"Date"},
		AutoWidth:  true,
	}
}

// ExportRows flattens entries into export records in batches, stopping early
// when ctx is done.
func ExportRows(ctx context.Context, entries []models.TimeEntry) ([]export.Record, error) {
	return chunk.Map(ctx, entries, exportRow, chunk.Options{})
}

func exportRow(e models.TimeEntry) export.Record {
	return export.Record{
		{Key: "date", Value: e.Date},
		{Key: "project", Value: e.ProjectName},
		{Key: "description", Value: e.Description},
		{Key: "start", Value: e.StartTime.Format("15:04:05")},
		{Key: "end", Value: e.EndTime.Format("15:04:05")},
		{Key: "durationSeconds", Value: e.Duration},
		{Key: "duration", Value: timecalc.FormatHMS(e.Duration)},
	}
}
