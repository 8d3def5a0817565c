package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/lock"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// User domain errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrForbiddenUser):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrEventNotFound):
		NotFound(w, "Time event not found")
	case errors.Is(err, attendance.ErrNotEventOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrSessionAlreadyOpen),
		errors.Is(err, attendance.ErrNoOpenSession),
		errors.Is(err, attendance.ErrBreaksLaterPair):
		Unprocessable(w, err.Error())

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction not found")
	case errors.Is(err, correction.ErrNoChanges):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, correction.ErrStaleRequest):
		ConflictWithCode(w, "STALE_REQUEST", err.Error())
	case errors.Is(err, correction.ErrCorrectionAlreadyReviewed):
		ConflictWithCode(w, "ALREADY_REVIEWED", err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Monthly report not found")
	case errors.Is(err, report.ErrNotReportOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrContestReasonTooShort):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrReportAlreadyExists):
		ConflictWithCode(w, "REPORT_EXISTS", err.Error())
	case errors.Is(err, report.ErrReportAlreadyReviewed):
		ConflictWithCode(w, "ALREADY_REVIEWED", err.Error())
	case errors.Is(err, report.ErrReportNotViewed):
		Unprocessable(w, err.Error())

	case errors.Is(err, lock.ErrNotObtained):
		ConflictWithCode(w, "LOCK_BUSY", "Another change for this user is in progress, retry shortly")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
