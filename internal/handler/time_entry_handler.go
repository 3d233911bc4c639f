package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/service"
	"Mansoor88-6/time-tracker/internal/store"

	"go.uber.org/zap"
)

type TimeEntryHandler struct {
	service *service.TimeEntryService
	logger  *zap.Logger
}

func NewTimeEntryHandler(service *service.TimeEntryService, logger *zap.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{
		service: service,
		logger:  logger,
	}
}

type deleteResponse struct {
	Entry     models.TimeEntry `json:"entry"`
	UndoToken string           `json:"undoToken"`
}

func (h *TimeEntryHandler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.CreateManual(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to create time entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *TimeEntryHandler) GetTimeEntry(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Get(id)
	if err != nil {
		writeError(w, h.logger, err, "Failed to get time entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	entries := h.service.List(queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	w.Header().Set("X-Total-Count", strconv.Itoa(h.service.Count()))
	writeJSON(w, http.StatusOK, entries)
}

func (h *TimeEntryHandler) UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	var req models.UpdateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to update time entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	token, entry, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err, "Failed to delete time entry")
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Entry: entry, UndoToken: string(token)})
}

func (h *TimeEntryHandler) RestoreTimeEntry(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token parameter", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Restore(r.Context(), store.UndoToken(token))
	if err != nil {
		writeError(w, h.logger, err, "Failed to restore time entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Projects())
}
