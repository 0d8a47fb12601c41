package models

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var modelValidator *validator.Validate

// V returns the shared validator with the model rules registered.
func V() *validator.Validate {
	if modelValidator == nil {
		modelValidator = validator.New(validator.WithRequiredStructEnabled())
		modelValidator.RegisterTagNameFunc(jsonFieldName)
		modelValidator.RegisterValidation("protocol", oneOfFold(Protocols))
		modelValidator.RegisterValidation("action", oneOf(Actions))
		modelValidator.RegisterValidation("severity", oneOf(Severities))
		modelValidator.RegisterValidation("role", oneOf(Roles))
	}
	return modelValidator
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

func oneOfFold(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return slices.ContainsFunc(allowed, func(a string) bool {
			return strings.EqualFold(a, v)
		})
	}
}

// FieldError describes one rejected field.
type FieldError struct {
	Field  string // JSON name of the field
	Value  any    // rejected value
	ErrStr string // human readable reason
}

func (fe FieldError) Error() string {
	if len(fe.Field) > 0 {
		return fe.Field + ": " + fe.ErrStr
	}
	return fe.ErrStr
}

// ValidationErrors collects the field errors of one value.
type ValidationErrors []FieldError

func (ves ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ves))
	for _, ve := range ves {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks v against its validate tags. It returns ValidationErrors
// describing every rejected field, or nil.
func Validate(v any) error {
	err := V().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Field:  e.Field(),
			Value:  e.Value(),
			ErrStr: describe(e),
		})
	}
	return out
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", e.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", e.Param())
	case "email":
		return "must be a valid email address"
	case "ip":
		return "must be an IPv4 or IPv6 address"
	case "protocol":
		return fmt.Sprintf("must be one of %s", strings.Join(Protocols, ", "))
	case "action":
		return fmt.Sprintf("must be one of %s", strings.Join(Actions, ", "))
	case "severity":
		return fmt.Sprintf("must be one of %s", strings.Join(Severities, ", "))
	case "role":
		return fmt.Sprintf("must be one of %s", strings.Join(Roles, ", "))
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
