package handler

import (
	"net/http"
	"time"

	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/report"
	"Mansoor88-6/time-tracker/internal/service"

	"go.uber.org/zap"
)

type ReportHandler struct {
	service *service.TimeEntryService
	now     func() time.Time
	logger  *zap.Logger
}

func NewReportHandler(service *service.TimeEntryService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{service: service, now: time.Now, logger: logger}
}

type weeklyResponse struct {
	report.WeeklyReport
	Previous string `json:"previous"`
	Next     string `json:"next,omitempty"`
}

// Weekly reports the week containing ?week=YYYY-MM-DD, or the current week.
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	now := h.now()
	start := report.WeekStart(now)
	if s := r.URL.Query().Get("week"); s != "" {
		t, err := time.ParseInLocation(models.DateLayout, s, now.Location())
		if err != nil {
			http.Error(w, "Invalid week parameter", http.StatusBadRequest)
			return
		}
		start = report.WeekStart(t)
	}

	resp := weeklyResponse{
		WeeklyReport: report.Weekly(h.service.All(), start),
		Previous:     report.PreviousWeek(start).Format(models.DateLayout),
	}
	if next, ok := report.NextWeek(start, now); ok {
		resp.Next = next.Format(models.DateLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportHandler) Projects(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, report.ByProject(h.service.All(), h.service.Projects()))
}
