package handler

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"

	"Mansoor88-6/time-tracker/internal/export"
	"Mansoor88-6/time-tracker/internal/service"

	"go.uber.org/zap"
)

type ExportHandler struct {
	service  *service.TimeEntryService
	pipeline *export.Pipeline
	jobs     *export.Jobs
	logger   *zap.Logger
}

func NewExportHandler(service *service.TimeEntryService, pipeline *export.Pipeline, jobs *export.Jobs, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		service:  service,
		pipeline: pipeline,
		jobs:     jobs,
		logger:   logger,
	}
}

type startExportRequest struct {
	FileName  string `json:"fileName"`
	SheetName string `json:"sheetName"`
}

// StartExport queues a workbook of every stored entry and answers at once.
func (h *ExportHandler) StartExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req startExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	opts := service.ExportOptions()
	if req.FileName != "" {
		opts.FileName = req.FileName
	}
	if req.SheetName != "" {
		opts.SheetName = req.SheetName
	}

	rows, err := service.ExportRows(r.Context(), h.service.All())
	if err != nil {
		writeError(w, h.logger, err, "Failed to prepare export")
		return
	}

	job := h.jobs.Submit(rows, opts)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": job.ID})
}

func (h *ExportHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	job, ok := h.job(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	job, ok := h.job(w, r)
	if !ok {
		return
	}

	select {
	case <-job.Done():
	default:
		writeJSON(w, http.StatusConflict, errorResponse{Error: "Export is still running"})
		return
	}

	result, err := job.Wait(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if err := export.ServeFile(w, result.FileName, result.Data); err != nil {
		h.logger.Warn("Failed to send export", zap.String("job_id", job.ID), zap.Error(err))
	}
}

// Demo builds a small workbook from fabricated rows and returns it directly.
func (h *ExportHandler) Demo(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	filter := service.DemoFilter{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}.WithDefaults()

	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	result, err := h.pipeline.Export(r.Context(), service.DemoRows(filter, rnd), service.DemoOptions())
	if err != nil {
		h.logger.Error("Export error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to generate export"})
		return
	}

	if err := export.ServeFile(w, result.FileName, result.Data); err != nil {
		h.logger.Warn("Failed to send export", zap.Error(err))
	}
}

func (h *ExportHandler) job(w http.ResponseWriter, r *http.Request) (*export.Job, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return nil, false
	}
	job, ok := h.jobs.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Export not found"})
		return nil, false
	}
	return job, true
}
