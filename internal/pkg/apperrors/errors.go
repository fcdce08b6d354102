package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Partner errors
var (
	ErrPartnerNotFound      = errors.New("partner not found")
	ErrPartnerAlreadyExists = errors.New("partner with this short code already exists")
	ErrPartnerHasCourses    = errors.New("partner has associated courses and cannot be deleted")
)

// Course errors
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseAlreadyExists = errors.New("course with this key, slug or uuid already exists for the partner")
)

// Course run errors
var (
	ErrCourseRunNotFound      = errors.New("course run not found")
	ErrCourseRunAlreadyExists = errors.New("course run with this key already exists")
)

// Seat errors
var (
	ErrSeatNotFound      = errors.New("seat not found")
	ErrSeatAlreadyExists = errors.New("course run already has a seat of this type")
	ErrCurrencyNotFound  = errors.New("currency not found")
)

// Program errors
var (
	ErrProgramNotFound          = errors.New("program not found")
	ErrProgramAlreadyExists     = errors.New("program with this uuid already exists")
	ErrProgramTypeNotFound      = errors.New("program type not found")
	ErrProgramTypeAlreadyExists = errors.New("program type with this slug already exists")
)

// Curriculum errors
var (
	ErrCurriculumNotFound      = errors.New("curriculum not found")
	ErrMembershipNotFound      = errors.New("curriculum course membership not found")
	ErrMembershipAlreadyExists = errors.New("course is already a member of this curriculum")
)

// Switch errors
var (
	ErrSwitchNotFound = errors.New("switch not found")
)

// CustomError represents application-specific errors with additional context.
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewResourceNotFoundError creates a not-found error with a message.
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message.
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewBadRequestError creates a bad request error with a message.
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}
