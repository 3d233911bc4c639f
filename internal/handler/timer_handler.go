package handler

import (
	"encoding/json"
	"net/http"

	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/timer"

	"go.uber.org/zap"
)

type TimerHandler struct {
	timer  *timer.Timer
	logger *zap.Logger
}

func NewTimerHandler(t *timer.Timer, logger *zap.Logger) *TimerHandler {
	return &TimerHandler{timer: t, logger: logger}
}

func (h *TimerHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.timer.Status())
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req models.StartTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status, err := h.timer.Start(req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to start timer")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	status, err := h.timer.Pause()
	if err != nil {
		writeError(w, h.logger, err, "Failed to pause timer")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *TimerHandler) Resume(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	status, err := h.timer.Resume()
	if err != nil {
		writeError(w, h.logger, err, "Failed to resume timer")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *TimerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	entry, err := h.timer.Stop(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "Failed to stop timer")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
