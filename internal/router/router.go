package router

import (
	"net/http"
	"time"

	"Mansoor88-6/time-tracker/internal/handler"

	"go.uber.org/zap"
)

type Handlers struct {
	TimeEntries   *handler.TimeEntryHandler
	Timer         *handler.TimerHandler
	Reports       *handler.ReportHandler
	Exports       *handler.ExportHandler
	Notifications *handler.NotificationHandler
}

func New(h Handlers, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Time entry endpoints
	mux.HandleFunc("/api/v1/time-entries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.TimeEntries.CreateTimeEntry(w, r)
		case http.MethodGet:
			if r.URL.Query().Get("id") != "" {
				h.TimeEntries.GetTimeEntry(w, r)
			} else {
				h.TimeEntries.ListTimeEntries(w, r)
			}
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/time-entries/update", h.TimeEntries.UpdateTimeEntry)
	mux.HandleFunc("/api/v1/time-entries/delete", h.TimeEntries.DeleteTimeEntry)
	mux.HandleFunc("/api/v1/time-entries/restore", h.TimeEntries.RestoreTimeEntry)
	mux.HandleFunc("/api/v1/projects", h.TimeEntries.ListProjects)

	// Timer endpoints
	mux.HandleFunc("/api/v1/timer", h.Timer.Status)
	mux.HandleFunc("/api/v1/timer/start", h.Timer.Start)
	mux.HandleFunc("/api/v1/timer/pause", h.Timer.Pause)
	mux.HandleFunc("/api/v1/timer/resume", h.Timer.Resume)
	mux.HandleFunc("/api/v1/timer/stop", h.Timer.Stop)

	// Report endpoints
	mux.HandleFunc("/api/v1/reports/weekly", h.Reports.Weekly)
	mux.HandleFunc("/api/v1/reports/projects", h.Reports.Projects)

	// Export endpoints
	mux.HandleFunc("/api/v1/exports", h.Exports.StartExport)
	mux.HandleFunc("/api/v1/exports/status", h.Exports.Status)
	mux.HandleFunc("/api/v1/exports/download", h.Exports.Download)
	mux.HandleFunc("/api/export", h.Exports.Demo)

	mux.HandleFunc("/api/v1/notifications", h.Notifications.Notifications)

	// Logging middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(rec)
		if r.Method == http.MethodOptions {
			rec.WriteHeader(http.StatusNoContent)
		} else {
			mux.ServeHTTP(rec, r)
		}
		logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// setCORSHeaders lets a browser dashboard on another origin call the API
// and read the download file name.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
