package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Code    string         `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string         `json:"field,omitempty" example:"instrument"`
	Message string         `json:"message,omitempty" example:"instrument is required"`
	Params  map[string]any `json:"params,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// ReadAndValidateRequest binds req, applies defaults and validates it.
// It returns nil when the request is valid.
func ReadAndValidateRequest(c echo.Context, req any) []ValidationError {
	if err := c.Bind(req); err != nil {
		return validatorDefaultRules(err)
	}

	if err := defaults.Set(req); err != nil {
		return validatorDefaultRules(err)
	}

	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validatorDefaultRules(err)
	}

	return nil
}

func validatorDefaultRules(err error) []ValidationError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errs := make([]ValidationError, 0, len(validationErrors))
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Code:    "ERR_" + strings.ToUpper(e.Tag()),
				Field:   e.Field(),
				Message: getErrorMessage(e),
				Params:  getErrorParams(e),
			})
		}
		return errs
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return []ValidationError{{
			Code:    "ERR_BIND",
			Message: fmt.Sprintf("%v", he.Message),
		}}
	}

	return []ValidationError{{
		Code:    "ERR_UNKNOWN",
		Message: err.Error(),
	}}
}

var (
	messages = map[string]string{
		"required": "%s is required",
		"oneof":    "%s must be one of: %s",
		"gt":       "%s must be greater than %s",
		"gte":      "%s must be greater than or equal to %s",
		"lt":       "%s must be less than %s",
		"lte":      "%s must be less than or equal to %s",
		"min":      "%s must be at least %s",
		"max":      "%s must be at most %s",
	}
	custom = map[string]string{}
)

// RegisterValidation adds a string validation tag. message receives the field name.
// Call it from init; the validator is not safe for registration after first use.
func RegisterValidation(tag string, valid func(string) bool, message string) {
	if err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	custom[tag] = message
}

func getErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	if msg, ok := custom[fe.Tag()]; ok {
		return fmt.Sprintf(msg, field)
	}
	format, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf(format, field)
	case "oneof":
		return fmt.Sprintf(format, field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "max":
		switch fe.Kind() {
		case reflect.String:
			format += " characters"
		case reflect.Map, reflect.Slice:
			format += " items"
		}
	}
	return fmt.Sprintf(format, field, fe.Param())
}

func getErrorParams(fe validator.FieldError) map[string]any {
	switch fe.Tag() {
	case "min", "gte":
		return map[string]any{"min": fe.Param()}
	case "max", "lte":
		return map[string]any{"max": fe.Param()}
	case "gt", "lt":
		return map[string]any{"value": fe.Param()}
	case "oneof":
		return map[string]any{"options": strings.Split(fe.Param(), " ")}
	}
	return nil
}
