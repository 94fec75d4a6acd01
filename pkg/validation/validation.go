// Package validation wraps go-playground/validator for request DTOs and
// translates failures into domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "meridian/pkg/domain-errors"
	s "meridian/pkg/string"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return isAlpha2(fl.Field().String())
	})
	return v
}

// isAlpha2 accepts two upper-case ASCII letters. Requests upper-case country
// codes in Normalize before validating.
func isAlpha2(code string) bool {
	return len(code) == 2 &&
		code[0] >= 'A' && code[0] <= 'Z' &&
		code[1] >= 'A' && code[1] <= 'Z'
}

// Validate runs the struct tags on req and reports the first failure as a
// validation_failed domain error.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// messages are keyed by validator tag. %[1]s is the snake_case field name and
// %[2]s the tag parameter.
var messages = map[string]string{
	"required": "%[1]s is required",
	"uuid":     "%[1]s must be a valid uuid",
	"min":      "%[1]s must be at least %[2]s",
	"max":      "%[1]s must be at most %[2]s",
	"oneof":    "%[1]s must be one of [%[2]s]",
	"notblank": "%[1]s must not be blank",
	"country":  "%[1]s must be an ISO-3166 alpha-2 country code",
}

// ErrorMessage names the first offending field of a validator error.
func ErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	fe := fieldErrs[0]

	name := fe.Field()
	if name == "" {
		name = fe.StructField()
	}
	field := s.ToSnakeCase(name)

	format, ok := messages[fe.ActualTag()]
	if !ok {
		return field + " is invalid"
	}
	return fmt.Sprintf(format, field, fe.Param())
}
