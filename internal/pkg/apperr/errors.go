package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	CodeInvalidArgument      = "INVALID_ARGUMENT"
	CodeInvalidWindow        = "INVALID_WINDOW"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeFetchFailed          = "FETCH_FAILED"
	CodeStoreIO              = "STORE_IO_FAILURE"
	CodeAlreadyInitialized   = "ALREADY_INITIALIZED"
	CodeNotInitialized       = "NOT_INITIALIZED"
	CodeNotFound             = "NOT_FOUND"
)

// Process exit statuses. Every fatal error exits non-zero; the distinct values only help cron wrappers.
const (
	ExitGeneric      = 1
	ExitUsage        = 2
	ExitAuth         = 3
	ExitFetch        = 4
	ExitStore        = 5
	ExitInstallation = 6
)

var (
	// ErrInvalidArgument is returned when a command line argument is missing or malformed.
	ErrInvalidArgument = New(ExitUsage, CodeInvalidArgument, "invalid argument")

	// ErrInvalidWindow is returned for a partial, reversed or unparsable date window.
	// It is always surfaced before any network call is made.
	ErrInvalidWindow = New(ExitUsage, CodeInvalidWindow, "invalid date window: start and end must both be given, or neither, and start must not be after end")

	// ErrAuthenticationFailed is returned when the remote service rejected the credential even after re-authenticating.
	ErrAuthenticationFailed = New(ExitAuth, CodeAuthenticationFailed, "authentication with the time tracking service failed")

	// ErrFetchFailed is returned when a page could not be retrieved within the retry budget.
	// Extras carry the resource name and the cursor of the failing page.
	ErrFetchFailed = New(ExitFetch, CodeFetchFailed, "failed to fetch page from the time tracking service")

	// ErrStoreIO wraps any failure of the local store.
	ErrStoreIO = New(ExitStore, CodeStoreIO, "local store operation failed")

	// ErrAlreadyInitialized is returned by install when the schema version marker already exists.
	ErrAlreadyInitialized = New(ExitInstallation, CodeAlreadyInitialized, "store is already initialized; refusing to install again")

	// ErrNotInitialized is returned when the store has no schema version marker.
	ErrNotInitialized = New(ExitInstallation, CodeNotInitialized, "store is not initialized: run with --install first")

	// ErrNotFound is returned when a row is not found with given parameters.
	ErrNotFound = New(ExitGeneric, CodeNotFound, "resource not found with given parameters")
)

type Extras map[string]interface{}

type AppError struct {
	ExitCode  int
	ErrorCode string
	Message   string
	Extras    *Extras

	cause error
}

func New(exitCode int, errorCode string, message string) *AppError {
	return &AppError{
		ExitCode:  exitCode,
		ErrorCode: errorCode,
		Message:   message,
	}
}

func (e AppError) Msg(format string, parts ...interface{}) *AppError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e AppError) WithExtras(extras Extras) *AppError {
	e.Extras = &extras
	return &e
}

// Wrap returns a copy of e that records err as its cause.
func (e AppError) Wrap(err error) *AppError {
	e.cause = err
	return &e
}

// Extra looks up a single value from Extras.
func (e *AppError) Extra(key string) (interface{}, bool) {
	if e.Extras == nil {
		return nil, false
	}
	v, ok := (*e.Extras)[key]
	return v, ok
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrorCode, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *AppError with the same error code, so that
// derived copies (Msg, WithExtras, Wrap) still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.ErrorCode == e.ErrorCode
}

// StoreIO wraps err as ErrStoreIO unless it already carries an application error code.
func StoreIO(err error, format string, parts ...interface{}) error {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}
	return ErrStoreIO.Msg(format, parts...).Wrap(err)
}

// ExitCodeOf maps err to the process exit status.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ae *AppError
	if errors.As(err, &ae) && ae.ExitCode != 0 {
		return ae.ExitCode
	}
	return ExitGeneric
}
