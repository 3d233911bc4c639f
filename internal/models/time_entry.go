package models

import "time"

// DateLayout is the calendar-day format used for TimeEntry.Date and date query params.
const DateLayout = "2006-01-02"

type TimeEntry struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int64     `json:"duration"` // seconds
	Date        string    `json:"date"`
}

type Project struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// CreateTimeEntryRequest is the manual entry form payload. Duration is never
// sent directly; it is derived from hours/minutes/seconds on save.
type CreateTimeEntryRequest struct {
	ProjectID   string `json:"projectId"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Hours       int    `json:"hours"`
	Minutes     int    `json:"minutes"`
	Seconds     int    `json:"seconds"`
}

// UpdateTimeEntryRequest carries the full replacement values for an entry.
type UpdateTimeEntryRequest = CreateTimeEntryRequest

type StartTimerRequest struct {
	ProjectID   string `json:"projectId"`
	Description string `json:"description,omitempty"`
}
