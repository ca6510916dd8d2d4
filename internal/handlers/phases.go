package handlers

import (
	"net/http"

	"jobTracker/internal/handlers/dto"
	"jobTracker/internal/logger"

	"go.uber.org/zap"
)

// CreatePhase handles POST /jobs/{id}/phases.
func (h *Handler) CreatePhase(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.CreatePhaseRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	phase, err := h.svc.CreatePhase(r.Context(), jobID, request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_phase")
		return
	}
	responseWithJSON(w, http.StatusCreated, phase)
}

// UpdatePhase applies an edit command and returns the whole job, since an extension
// can move later phases too.
func (h *Handler) UpdatePhase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.UpdatePhaseRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	job, err := h.svc.UpdatePhase(r.Context(), request.ToEdit(id))
	if err != nil {
		handleServiceError(w, r, err, "update_phase")
		return
	}

	logger.Info("HTTP: phase updated",
		zap.String("phase_id", id.String()),
		zap.Int("extend_days", request.ExtendDays))
	responseWithJSON(w, http.StatusOK, job)
}

func (h *Handler) DeletePhase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePhase(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_phase")
		return
	}
	responseNoContent(w)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	phaseID, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.CreateNoteRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	note, err := h.svc.AddNote(r.Context(), phaseID, request.Body)
	if err != nil {
		handleServiceError(w, r, err, "create_note")
		return
	}
	responseWithJSON(w, http.StatusCreated, note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_note")
		return
	}
	responseNoContent(w)
}
