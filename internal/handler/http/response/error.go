package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var classErr *reconciliation.ClassificationError
	if errors.As(err, &classErr) {
		BadRequest(w, classErr.Error(), nil)
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, jwtauth.ErrExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwtauth.ErrNoTokenFound):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, reconciliation.ErrCompanyClaimMissing),
		errors.Is(err, reconciliation.ErrEmployeeClaimMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrManagerAccessRequired):
		Forbidden(w, "Manager or owner access required")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Reconciliation errors
	case errors.Is(err, reconciliation.ErrInvalidPeriod),
		errors.Is(err, attendance.ErrInvalidPeriod),
		errors.Is(err, attendance.ErrEmployeeIDRequired):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled request error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
