package validation

import (
	"testing"

	"Mansoor88-6/time-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projects = []models.Project{{ID: "project-1", Name: "Website Redesign"}}

func TestValidateEntry(t *testing.T) {
	valid := models.CreateTimeEntryRequest{ProjectID: "project-1", Date: "2024-03-04", Hours: 1}

	tests := []struct {
		name   string
		mutate func(r *models.CreateTimeEntryRequest)
		field  string
		msg    string
	}{
		{"missing project", func(r *models.CreateTimeEntryRequest) { r.ProjectID = "" }, "projectId", "Project selection is required"},
		{"unknown project", func(r *models.CreateTimeEntryRequest) { r.ProjectID = "nope" }, "projectId", "Unknown project"},
		{"missing date", func(r *models.CreateTimeEntryRequest) { r.Date = "" }, "date", "Please select a date"},
		{"bad date", func(r *models.CreateTimeEntryRequest) { r.Date = "04/03/2024" }, "date", "Please select a date"},
		{"hours too large", func(r *models.CreateTimeEntryRequest) { r.Hours = 25 }, "hours", "Hours cannot exceed 24"},
		{"negative minutes", func(r *models.CreateTimeEntryRequest) { r.Minutes = -1 }, "minutes", "Minutes must be 0 or greater"},
		{"seconds too large", func(r *models.CreateTimeEntryRequest) { r.Seconds = 60 }, "seconds", "Seconds cannot exceed 59"},
		{"zero duration", func(r *models.CreateTimeEntryRequest) { r.Hours = 0 }, "hours", "Total duration must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := ValidateEntry(&req, projects)
			require.Error(t, err)

			var errs Errors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}

	t.Run("valid", func(t *testing.T) {
		req := valid
		assert.NoError(t, ValidateEntry(&req, projects))
	})
}

func TestValidateTimer(t *testing.T) {
	assert.NoError(t, ValidateTimer(&models.StartTimerRequest{ProjectID: "project-1"}, projects))
	assert.Error(t, ValidateTimer(&models.StartTimerRequest{}, projects))
}

func TestErrorsMessageIsSorted(t *testing.T) {
	errs := Errors{"minutes": "b", "date": "a"}
	assert.Equal(t, "validation failed: date: a; minutes: b", errs.Error())
}
