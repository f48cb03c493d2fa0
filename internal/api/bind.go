package api

import (
	"encoding/json" // JSON error types
	"errors"        // Error inspection
	"fmt"           // Message formatting
	"io"            // Empty body detection
	"reflect"       // Struct tag lookup
	"strings"       // String manipulation

	"budget_system/internal/apperr" // Typed errors

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding validation errors
)

// bindJSON decodes the request body into out, responding 400 with field errors on failure
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		apperr.Respond(c, apperr.WithFields(apperr.ErrInvalidBody, fieldErrors(err, out)))
		return false
	}
	return true
}

// fieldErrors translates binding failures to per-field errors
func fieldErrors(err error, out any) []apperr.FieldError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]apperr.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, apperr.FieldError{
				Field:   jsonName(out, fe.StructField()),
				Rule:    fe.Tag(),
				Message: validationMessage(fe.Tag(), fe.Param()),
			})
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []apperr.FieldError{{
			Field:   typeErr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}}
	}

	var amountErr *AmountError
	if errors.As(err, &amountErr) {
		return []apperr.FieldError{{Field: "amount", Rule: "number", Message: "must be a number"}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) {
		return []apperr.FieldError{{Field: "body", Rule: "json", Message: "must be a valid JSON object"}}
	}
	return []apperr.FieldError{{Field: "body", Rule: "json", Message: err.Error()}}
}

// jsonName maps a Go field name of out to its json tag
func jsonName(out any, field string) string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return field
	}
	sf, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field
	}
	return name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must be exactly " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
