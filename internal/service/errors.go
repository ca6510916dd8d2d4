package service

import (
	"errors"
	"fmt"

	repo "jobTracker/internal/repository"
	"jobTracker/internal/schedule"

	"github.com/google/uuid"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeJobClosed        = "JOB_CLOSED"
	CodeTemplateNotFound = "TEMPLATE_NOT_FOUND"
)

type Resource string

const (
	ResourceJob      Resource = "job"
	ResourcePhase    Resource = "phase"
	ResourceTask     Resource = "task"
	ResourceMaterial Resource = "material"
	ResourceNote     Resource = "note"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource Resource, id uuid.UUID) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id.String(),
		},
		Err: repo.ErrNotFound,
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid value of field '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewJobClosed(id uuid.UUID) *BusinessError {
	return NewBusinessError(CodeJobClosed, fmt.Sprintf("job %s is closed", id), ToDetail("id", id.String()))
}

func NewTemplateNotFound(name string) *BusinessError {
	return NewBusinessError(CodeTemplateNotFound, fmt.Sprintf("template %q not found", name), ToDetail("name", name))
}

// storeError maps a repository miss to NOT_FOUND and wraps anything else.
func storeError(err error, resource Resource, id uuid.UUID) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound(resource, id)
	}
	return fmt.Errorf("%s %s: %w", resource, id, err)
}

// engineError turns a rejected schedule edit into VALIDATION_ERROR.
func engineError(err error) error {
	var verr *schedule.ValidationError
	if errors.As(err, &verr) {
		be := NewValidationError(verr.Field, verr.Reason)
		be.Err = err
		return be
	}
	return fmt.Errorf("plan edit: %w", err)
}

func IsCode(err error, code string) bool {
	var be *BusinessError
	return errors.As(err, &be) && be.Code == code
}
