package handlers

import (
	"net/http"

	"jobTracker/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const serviceName = "job-tracker"

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts every endpoint on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.ListJobs)
		r.Post("/", h.CreateJob)
		r.Post("/from-template", h.CreateJobFromTemplate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetJob)
			r.Put("/", h.UpdateJob)
			r.Delete("/", h.DeleteJob)
			r.Post("/close", h.CloseJob)
			r.Post("/phases", h.CreatePhase)
		})
	})

	r.Route("/phases/{id}", func(r chi.Router) {
		r.Put("/", h.UpdatePhase)
		r.Delete("/", h.DeletePhase)
		r.Post("/tasks", h.CreateTask)
		r.Post("/materials", h.CreateMaterial)
		r.Post("/notes", h.CreateNote)
	})

	r.Put("/tasks/{id}", h.UpdateTask)
	r.Delete("/tasks/{id}", h.DeleteTask)
	r.Put("/materials/{id}", h.UpdateMaterial)
	r.Delete("/materials/{id}", h.DeleteMaterial)
	r.Delete("/notes/{id}", h.DeleteNote)

	r.Get("/dashboard", h.Dashboard)
	r.Get("/notifications", h.ListNotifications)
	r.Get("/templates", h.ListTemplates)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithPayload(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("error", err.Error()))
		return
	}
	responseWithPayload(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName))
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "dashboard")
		return
	}
	responseWithJSON(w, http.StatusOK, dash)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil || limit < 0 {
		logger.Warn("HTTP: invalid limit", zap.String("limit", r.URL.Query().Get("limit")))
		responseWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	list, err := h.svc.ListNotifications(r.Context(), limit)
	if err != nil {
		handleServiceError(w, r, err, "list_notifications")
		return
	}
	responseWithJSON(w, http.StatusOK, list)
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, h.svc.ListTemplates())
}
