package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var errorCodes = map[int]string{
	http.StatusBadRequest:          "ERR_BAD_REQUEST",
	http.StatusNotFound:            "ERR_NOT_FOUND",
	http.StatusUnprocessableEntity: "ERR_UNPROCESSABLE",
	http.StatusTooManyRequests:     "ERR_RATE_LIMITED",
	http.StatusInternalServerError: "ERR_INTERNAL",
}

// AppError is an error reported to API clients as-is.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	Status  int            `json:"-"`
	Err     error          `json:"-"`
}

// Errorf creates an AppError whose code is derived from status.
func Errorf(status int, format string, a ...any) *AppError {
	code, ok := errorCodes[status]
	if !ok {
		code = "ERR_" + strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, a...), Status: status}
}

func NotFound(format string, a ...any) *AppError {
	return Errorf(http.StatusNotFound, format, a...)
}

func BadRequest(field, message string) *AppError {
	return Errorf(http.StatusBadRequest, "%s", message).On(field)
}

func Unprocessable(format string, a ...any) *AppError {
	return Errorf(http.StatusUnprocessableEntity, format, a...)
}

func TooManyRequests(message string) *AppError {
	return Errorf(http.StatusTooManyRequests, "%s", message)
}

func Internal(message string) *AppError {
	return Errorf(http.StatusInternalServerError, "%s", message)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// On names the request field the error refers to.
func (e *AppError) On(field string) *AppError {
	e.Field = field
	return e
}

func (e *AppError) WithParam(key string, value any) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]any)
	}
	e.Params[key] = value
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// AsAppError unwraps err into an AppError. Anything else becomes an opaque 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Something went wrong").WithError(err)
}
