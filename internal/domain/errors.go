package domain

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HTTPError is implemented by every error a service raises deliberately.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a referenced entity does not exist.
	NotFoundError struct {
		Message string
	}

	// ForbiddenError indicates a failed role or ownership check.
	ForbiddenError struct {
		Message string
	}

	// ValidationError indicates a field constraint violation.
	ValidationError struct {
		Message string
	}

	// UnauthenticatedError indicates no actor could be established.
	UnauthenticatedError struct {
		Message string
	}

	// ConflictError indicates the write would break a uniqueness or reference constraint.
	ConflictError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string        { return e.Message }
func (e *ForbiddenError) Error() string       { return e.Message }
func (e *ValidationError) Error() string      { return e.Message }
func (e *UnauthenticatedError) Error() string { return e.Message }
func (e *ConflictError) Error() string        { return e.Message }

func (e *NotFoundError) StatusCode() int        { return http.StatusNotFound }
func (e *ForbiddenError) StatusCode() int       { return http.StatusForbidden }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *UnauthenticatedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ConflictError) StatusCode() int        { return http.StatusConflict }

// Sentinel errors, matched with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
)

func (e *NotFoundError) Is(target error) bool        { return target == ErrNotFound }
func (e *ForbiddenError) Is(target error) bool       { return target == ErrForbidden }
func (e *ValidationError) Is(target error) bool      { return target == ErrValidation }
func (e *UnauthenticatedError) Is(target error) bool { return target == ErrUnauthenticated }
func (e *ConflictError) Is(target error) bool        { return target == ErrConflict }

// Fixed user-facing messages.
const (
	MsgUserNotFound        = "User not found"
	MsgWorkoutPlanNotFound = "Workout plan not found"
	MsgActivityLogNotFound = "Activity log not found"
	MsgAccessDenied        = "Access Denied: You don't have permission to perform this action"
	MsgLogNotOwned         = "Activity log does not belong to this user"
	MsgPlanNotOwned        = "Workout plan does not belong to this user"
	MsgEmailTaken          = "Email already exists"
	MsgAuthRequired        = "Authentication required"
)

func notFound(msg string) error  { return &NotFoundError{Message: msg} }
func forbidden(msg string) error { return &ForbiddenError{Message: msg} }

// NewValidationError converts ozzo-validation output into a ValidationError whose
// message lists every failed field, joined with ", ". Errors that are not field
// violations are returned unchanged.
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		var single validation.Error
		if errors.As(err, &single) {
			return &ValidationError{Message: single.Error()}
		}
		return err
	}

	keys := make([]string, 0, len(fieldErrs))
	for key := range fieldErrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		if fieldErrs[key] != nil {
			messages = append(messages, fieldErrs[key].Error())
		}
	}
	return &ValidationError{Message: strings.Join(messages, ", ")}
}
