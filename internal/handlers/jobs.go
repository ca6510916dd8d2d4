package handlers

import (
	"net/http"
	"time"

	"jobTracker/internal/handlers/dto"
	"jobTracker/internal/logger"
	"jobTracker/internal/models"

	"go.uber.org/zap"
)

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := dto.ListJobsQuery{Status: r.URL.Query().Get("status"), Page: page, Limit: limit}
	if err := dto.Validate(query); err != nil {
		logger.Warn("HTTP: invalid list query", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		handleValidationError(w, err)
		return
	}

	jobs, err := h.svc.ListJobs(r.Context(), models.JobStatus(query.Status), query.Page, query.Limit)
	if err != nil {
		handleServiceError(w, r, err, "list_jobs")
		return
	}
	responseWithJSON(w, http.StatusOK, jobs)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateJobRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	job, err := h.svc.CreateJob(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_job")
		return
	}

	logger.Info("HTTP: job created",
		zap.String("job_id", job.ID.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusCreated, job)
}

func (h *Handler) CreateJobFromTemplate(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateFromTemplateRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	job, err := h.svc.CreateJobFromTemplate(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_job_from_template")
		return
	}

	logger.Info("HTTP: job created from template",
		zap.String("job_id", job.ID.String()),
		zap.String("template", request.Template))
	responseWithJSON(w, http.StatusCreated, job)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	job, err := h.svc.GetJobDetail(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_job")
		return
	}
	responseWithJSON(w, http.StatusOK, job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var request dto.UpdateJobRequest
	if !decodeRequest(w, r, &request) {
		return
	}

	job, err := h.svc.UpdateJob(r.Context(), id, request.ToUpdate())
	if err != nil {
		handleServiceError(w, r, err, "update_job")
		return
	}
	responseWithJSON(w, http.StatusOK, job)
}

func (h *Handler) CloseJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	job, err := h.svc.CloseJob(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "close_job")
		return
	}
	responseWithJSON(w, http.StatusOK, job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteJob(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_job")
		return
	}
	responseNoContent(w)
}
