package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  int    `json:"status" example:"200"`
	Message string `json:"message" example:"OK"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Page is the data of list endpoints.
type Page[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

func write(c echo.Context, status int, data, errs any) error {
	return c.JSON(status, Envelope{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
		Errors:  errs,
	})
}

// OK writes data with a 200 status.
func OK(c echo.Context, data any) error {
	return write(c, http.StatusOK, data, nil)
}

// List writes rows as a Page. A nil slice is written as an empty list.
func List[T any](c echo.Context, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	return OK(c, Page[T]{Rows: rows, Total: len(rows)})
}

// Invalid writes request validation errors with a 400 status.
func Invalid(c echo.Context, errs []ValidationError) error {
	return write(c, http.StatusBadRequest, nil, errs)
}

// Fail writes err with the status of its AppError.
func Fail(c echo.Context, err error) error {
	appErr := AsAppError(err)
	return write(c, appErr.Status, nil, []*AppError{appErr})
}
