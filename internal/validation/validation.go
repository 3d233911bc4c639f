package validation

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"Mansoor88-6/time-tracker/internal/models"
)

// Errors maps a form field to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add keeps the first message recorded for a field.
func (e Errors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// ValidateEntry checks a manual-entry or edit payload against the known projects.
// It returns nil when the payload is acceptable, otherwise an Errors value.
func ValidateEntry(req *models.CreateTimeEntryRequest, projects []models.Project) error {
	errs := Errors{}

	if strings.TrimSpace(req.ProjectID) == "" {
		errs.add("projectId", "Project selection is required")
	} else if !knownProject(req.ProjectID, projects) {
		errs.add("projectId", "Unknown project")
	}

	if req.Date == "" {
		errs.add("date", "Please select a date")
	} else if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		errs.add("date", "Please select a date")
	}

	checkRange(errs, "hours", "Hours", req.Hours, 24)
	checkRange(errs, "minutes", "Minutes", req.Minutes, 59)
	checkRange(errs, "seconds", "Seconds", req.Seconds, 59)

	if req.Hours <= 0 && req.Minutes <= 0 && req.Seconds <= 0 {
		errs.add("hours", "Total duration must be greater than 0")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateTimer checks the live timer form, which only needs a project.
func ValidateTimer(req *models.StartTimerRequest, projects []models.Project) error {
	errs := Errors{}
	if strings.TrimSpace(req.ProjectID) == "" {
		errs.add("projectId", "Project selection is required")
	} else if !knownProject(req.ProjectID, projects) {
		errs.add("projectId", "Unknown project")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkRange(errs Errors, field, label string, v, max int) {
	if v < 0 {
		errs.add(field, label+" must be 0 or greater")
	} else if v > max {
		errs.add(field, label+" cannot exceed "+strconv.Itoa(max))
	}
}

func knownProject(id string, projects []models.Project) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}
