package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Mansoor88-6/time-tracker/internal/export"
	"Mansoor88-6/time-tracker/internal/handler"
	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/notify"
	"Mansoor88-6/time-tracker/internal/report"
	"Mansoor88-6/time-tracker/internal/service"
	"Mansoor88-6/time-tracker/internal/storage"
	"Mansoor88-6/time-tracker/internal/store"
	"Mansoor88-6/time-tracker/internal/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var projects = []models.Project{
	{ID: "project-1", Name: "Website Redesign"},
	{ID: "project-2", Name: "Mobile App Development"},
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	bus := notify.NewBus()
	feed := notify.NewFeed(20)
	feed.Attach(bus)

	st, err := store.New(context.Background(), storage.NewMemory(), store.Options{}, bus, logger)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	svc := service.NewTimeEntryService(st, projects, logger)
	pipeline := export.NewPipeline(export.Config{}, logger)
	jobs := export.NewJobs(pipeline, time.Minute, logger)
	t.Cleanup(jobs.Stop)

	return New(Handlers{
		TimeEntries:   handler.NewTimeEntryHandler(svc, logger),
		Timer:         handler.NewTimerHandler(timer.New(st, projects, logger), logger),
		Reports:       handler.NewReportHandler(svc, logger),
		Exports:       handler.NewExportHandler(svc, pipeline, jobs, logger),
		Notifications: handler.NewNotificationHandler(feed),
	}, logger)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, &buf))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func createEntry(t *testing.T, h http.Handler, date string, hours int) models.TimeEntry {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/time-entries", models.CreateTimeEntryRequest{
		ProjectID: "project-1",
		Date:      date,
		Hours:     hours,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.TimeEntry](t, rec)
}

func TestHealth(t *testing.T) {
	h := newServer(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newServer(t)
	rec := do(t, h, http.MethodOptions, "/api/v1/time-entries", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestTimeEntryLifecycle(t *testing.T) {
	h := newServer(t)
	entry := createEntry(t, h, "2024-03-04", 2)
	assert.Equal(t, "Website Redesign", entry.ProjectName)

	rec := do(t, h, http.MethodGet, "/api/v1/time-entries?id="+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entry.ID, decode[models.TimeEntry](t, rec).ID)

	rec = do(t, h, http.MethodPut, "/api/v1/time-entries/update?id="+entry.ID, models.UpdateTimeEntryRequest{
		ProjectID: "project-2",
		Date:      "2024-03-04",
		Minutes:   45,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(2700), decode[models.TimeEntry](t, rec).Duration)

	rec = do(t, h, http.MethodDelete, "/api/v1/time-entries/delete?id="+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[struct {
		Entry     models.TimeEntry `json:"entry"`
		UndoToken string           `json:"undoToken"`
	}](t, rec)
	assert.NotEmpty(t, deleted.UndoToken)

	rec = do(t, h, http.MethodGet, "/api/v1/time-entries", nil)
	assert.Empty(t, decode[[]models.TimeEntry](t, rec))

	rec = do(t, h, http.MethodPost, "/api/v1/time-entries/restore?token="+deleted.UndoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/time-entries", nil)
	require.Len(t, decode[[]models.TimeEntry](t, rec), 1)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	rec = do(t, h, http.MethodPost, "/api/v1/time-entries/restore?token="+deleted.UndoToken, nil)
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/notifications", nil)
	kinds := []notify.Kind{}
	for _, ev := range decode[[]notify.Event](t, rec) {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []notify.Kind{notify.KindRestored, notify.KindDeleted, notify.KindUpdated, notify.KindAdded}, kinds)
}

func TestTimeEntryErrors(t *testing.T) {
	h := newServer(t)
	createEntry(t, h, "2024-03-04", 2)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
	}{
		{"validation", http.MethodPost, "/api/v1/time-entries", models.CreateTimeEntryRequest{Date: "2024-03-04"}, http.StatusUnprocessableEntity},
		{"overlap", http.MethodPost, "/api/v1/time-entries", models.CreateTimeEntryRequest{ProjectID: "project-1", Date: "2024-03-04", Hours: 1}, http.StatusConflict},
		{"missing id", http.MethodGet, "/api/v1/time-entries?id=nope", nil, http.StatusNotFound},
		{"update missing", http.MethodPut, "/api/v1/time-entries/update?id=nope", models.UpdateTimeEntryRequest{ProjectID: "project-1", Date: "2024-03-09", Hours: 1}, http.StatusNotFound},
		{"delete without id", http.MethodDelete, "/api/v1/time-entries/delete", nil, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/v1/time-entries/delete?id=x", nil, http.StatusMethodNotAllowed},
		{"bad body", http.MethodPost, "/api/v1/time-entries", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, h, http.MethodPost, "/api/v1/time-entries", models.CreateTimeEntryRequest{ProjectID: "project-1", Date: "2024-03-04", Hours: 1})
	assert.Equal(t, service.OverlapMessage, decode[map[string]any](t, rec)["error"])
}

func TestTimerEndpoints(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/timer", nil)
	assert.Equal(t, timer.StateIdle, decode[timer.Status](t, rec).State)

	rec = do(t, h, http.MethodPost, "/api/v1/timer/start", models.StartTimerRequest{ProjectID: "project-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timer.StateRunning, decode[timer.Status](t, rec).State)

	rec = do(t, h, http.MethodPost, "/api/v1/timer/start", models.StartTimerRequest{ProjectID: "project-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/timer/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timer.StatePaused, decode[timer.Status](t, rec).State)

	rec = do(t, h, http.MethodPost, "/api/v1/timer/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/timer/start", models.StartTimerRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/timer/stop", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "nothing elapsed yet")
}

func TestReports(t *testing.T) {
	h := newServer(t)
	createEntry(t, h, "2024-03-04", 2)
	createEntry(t, h, "2024-03-06", 1)

	rec := do(t, h, http.MethodGet, "/api/v1/reports/weekly?week=2024-03-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	weekly := decode[struct {
		report.WeeklyReport
		Previous string `json:"previous"`
		Next     string `json:"next"`
	}](t, rec)
	assert.Equal(t, "2024-03-04", weekly.Start)
	assert.Equal(t, int64(3*3600), weekly.TotalSeconds)
	assert.Equal(t, "2024-02-26", weekly.Previous)
	assert.Equal(t, "2024-03-11", weekly.Next)

	rec = do(t, h, http.MethodGet, "/api/v1/reports/weekly?week=junk", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/reports/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[[]report.ProjectTotal](t, rec)
	require.Len(t, totals, 1)
	assert.Equal(t, "Website Redesign", totals[0].Name)
	assert.InDelta(t, 100, totals[0].Percent, 0.001)
}

func TestAsyncExport(t *testing.T) {
	h := newServer(t)
	createEntry(t, h, "2024-03-04", 2)

	rec := do(t, h, http.MethodPost, "/api/v1/exports", map[string]string{"fileName": "mine.xlsx"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	id := decode[map[string]string](t, rec)["id"]
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		rec := do(t, h, http.MethodGet, "/api/v1/exports/status?id="+id, nil)
		return decode[export.Snapshot](t, rec).Status == export.StatusSuccess
	}, 10*time.Second, 10*time.Millisecond)

	rec = do(t, h, http.MethodGet, "/api/v1/exports/download?id="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=mine.xlsx`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Time Entries")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "Website Redesign", rows[1][1])

	rec = do(t, h, http.MethodGet, "/api/v1/exports/status?id=missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDemoExport(t *testing.T) {
	h := newServer(t)
	rec := do(t, h, http.MethodGet, "/api/export?startDate=2023-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=data-export.xlsx`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Data Export")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"id", "date", "value"}, rows[0])
	assert.Equal(t, "item-1", rows[1][0])
	assert.Equal(t, "2023-11-10", rows[1][1])
}
