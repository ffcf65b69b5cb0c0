// Package errors defines the coded errors feluda returns across package
// boundaries.
//
// A [Code] names the failure class so callers can pick a recovery without
// matching on message text. Parse and network failures stay local to one
// manifest or dependency and end up as scan warnings; cache failures count
// as misses; config, clone and input failures abort the command.
//
//	err := errors.Wrap(errors.ErrCodeParse, cause, "read %s", path)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // warn and continue with the next manifest
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an [Error].
type Code string

const (
	ErrCodeParse      Code = "PARSE_ERROR"
	ErrCodeNetwork    Code = "NETWORK_ERROR"
	ErrCodeCache      Code = "CACHE_ERROR"
	ErrCodeConfig     Code = "CONFIG_ERROR"
	ErrCodeValidation Code = "VALIDATION_ERROR"
	ErrCodeClone      Code = "CLONE_ERROR"

	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidLanguage Code = "INVALID_LANGUAGE"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
)

// Error carries a Code, a message and an optional cause. It prints as
// "CODE: message" or "CODE: message: cause".
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error without a cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
