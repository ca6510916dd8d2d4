package handlers

import (
	"net/http"

	"jobTracker/internal/handlers/dto"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	phaseID, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.CreateTaskRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	task, err := h.svc.CreateTask(r.Context(), phaseID, request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}
	responseWithJSON(w, http.StatusCreated, task)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.UpdateTaskRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), id, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}
	responseWithJSON(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}
	responseNoContent(w)
}

func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	phaseID, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.CreateMaterialRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	material, err := h.svc.CreateMaterial(r.Context(), phaseID, request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_material")
		return
	}
	responseWithJSON(w, http.StatusCreated, material)
}

func (h *Handler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.UpdateMaterialRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	material, err := h.svc.UpdateMaterial(r.Context(), id, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_material")
		return
	}
	responseWithJSON(w, http.StatusOK, material)
}

func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteMaterial(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_material")
		return
	}
	responseNoContent(w)
}
