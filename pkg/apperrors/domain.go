package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for domain errors of the payment and
entitlement core. Repository sentinel errors (gorm.ErrRecordNotFound etc.)
get wrapped through the factories; static business rules use the variables.
*/

// =========================================================================
// Factory functions (wrap an underlying error, e.g. from a repository)
// =========================================================================

// ErrNotFound converts a repository miss into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrGateway wraps a payment-processor failure. The processor's own error
// text stays in Err for the logs and is never serialized to the caller.
func ErrGateway(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "payment", "Payment provider error", http.StatusBadGateway)
}

// ErrGatewayTimeout wraps a payment-processor call that exceeded its
// deadline. Retry is the caller's responsibility, not the core's.
func ErrGatewayTimeout(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "payment", "Payment provider timed out", http.StatusGatewayTimeout)
}

// ErrInvalidOperation builds a 400 for operations the domain forbids.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Predefined variables (frequent, static errors)
// =========================================================================

// --- Payments ---

// ErrPaymentNotFound - finalize or confirm addressed an intent with no
// matching local record.
var ErrPaymentNotFound = New(
	CodeNotFound,
	"payment",
	"Payment record not found",
	http.StatusNotFound,
)

// ErrInvalidTransition - finalize attempted to move a record between two
// different terminal statuses. Only a same-status repeat is permitted.
var ErrInvalidTransition = New(
	CodeInvalidStatus,
	"payment",
	"Payment record is already finalized with a different status",
	http.StatusConflict,
)

// ErrPaymentAmountInvalid - non-positive or missing amount.
var ErrPaymentAmountInvalid = New(
	CodeValidationFailed,
	"payment",
	"Payment amount must be positive",
	http.StatusBadRequest,
)

// ErrUserMismatch - the authenticated caller addressed another user's
// payment or subscription state.
var ErrUserMismatch = New(
	CodeForbidden,
	"payment",
	"Authenticated user does not match the requested user",
	http.StatusForbidden,
)

// --- Jobs & applications ---

// ErrNotJobOwner - the caller is not the employer that owns the job.
var ErrNotJobOwner = New(
	CodeForbidden,
	"job",
	"Only the job owner may perform this operation",
	http.StatusForbidden,
)

// ErrJobClosed - applications are not accepted for a closed job.
var ErrJobClosed = New(
	CodeInvalidStatus,
	"job",
	"Job is no longer accepting applications",
	http.StatusConflict,
)

// ErrDuplicateApplication - one application per applicant per job.
var ErrDuplicateApplication = New(
	CodeAlreadyExists,
	"application",
	"You have already applied to this job",
	http.StatusConflict,
)

// ErrInvalidApplicationStatus - status outside the pipeline enum.
var ErrInvalidApplicationStatus = New(
	CodeInvalidStatus,
	"application",
	"Invalid application status",
	http.StatusBadRequest,
)

// --- Auth & users ---

// ErrEmailAlreadyExists - email already registered.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - wrong email or password.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidUserRole - the operation is not available to the caller's role.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)
