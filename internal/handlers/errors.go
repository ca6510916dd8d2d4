package handlers

import (
	"errors"
	"net/http"

	"jobTracker/internal/handlers/dto"
	"jobTracker/internal/logger"
	"jobTracker/internal/middleware"
	"jobTracker/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	logger.Warn("HTTP: business error",
		zap.String("error_code", businessErr.Code),
		zap.String("message", businessErr.Message),
		zap.Int("http_status", statusCode))

	responseWithPayload(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound, service.CodeTemplateNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeJobClosed:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// handleServiceError writes a business error as is and anything else as 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: service error", err,
		zap.String("operation", operation),
		zap.String("request_id", middleware.GetRequestID(r.Context())))
	responseWithError(w, http.StatusInternalServerError, "internal server error")
}

func handleValidationError(w http.ResponseWriter, err error) {
	var fe *dto.FieldError
	if errors.As(err, &fe) {
		handleBusinessError(w, service.NewValidationError(fe.Field, fe.Reason))
		return
	}
	responseWithError(w, http.StatusBadRequest, err.Error())
}
