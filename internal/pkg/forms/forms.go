// Package forms parses and validates the HTML forms and query strings of the site.
//
// Numbers arrive as strings so that malformed input becomes a field error
// instead of a body parser failure. Error keys are the form field names.
package forms

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
)

const (
	msgRequired    = "This field is required."
	msgNumber      = "Enter a number."
	msgWholeNumber = "Enter a whole number."
	msgNotNegative = "Ensure this value is greater than or equal to 0."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidUsername(fl.Field().String())
	})
	return v
}

// check runs the struct tags of form and translates failures into field errors.
func check(form interface{}) apperror.FieldErrors {
	fields := apperror.FieldErrors{}
	err := validate.Struct(form)
	if err == nil {
		return fields
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields.Add(apperror.NonFieldKey, err.Error())
		return fields
	}
	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return "Enter a valid email address."
	case "max":
		if s, ok := fe.Value().(string); ok {
			return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(s))
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return "Enter a valid value."
	}
}

var decimalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// parsePrice validates a decimal(10,2) amount. ok is false when an error was recorded.
func parsePrice(fields apperror.FieldErrors, name, raw string, required bool) (value float64, present bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			fields.Add(name, msgRequired)
			return 0, false, false
		}
		return 0, false, true
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fields.Add(name, msgNumber)
		return 0, true, false
	}
	if v < 0 {
		fields.Add(name, msgNotNegative)
		return 0, true, false
	}
	if !decimalPattern.MatchString(raw) {
		fields.Add(name, msgNumber)
		return 0, true, false
	}
	if i := strings.IndexByte(raw, '.'); i >= 0 && len(raw)-i-1 > 2 {
		fields.Add(name, "Ensure that there are no more than 2 decimal places.")
		return 0, true, false
	}
	if v >= models.MaxListingPrice {
		fields.Add(name, "Ensure that there are no more than 8 digits before the decimal point.")
		return 0, true, false
	}
	return v, true, true
}

// parseFilterPrice accepts any non-negative number. Storage limits do not apply to bounds.
func parseFilterPrice(fields apperror.FieldErrors, name, raw string) (value float64, present bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, true
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fields.Add(name, msgNumber)
		return 0, true, false
	}
	if v < 0 {
		fields.Add(name, msgNotNegative)
		return 0, true, false
	}
	return v, true, true
}

// parseCount validates a non-negative whole number.
func parseCount(fields apperror.FieldErrors, name, raw string, required bool) (value uint, present bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			fields.Add(name, msgRequired)
			return 0, false, false
		}
		return 0, false, true
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		fields.Add(name, msgWholeNumber)
		return 0, true, false
	}
	if n < 0 {
		fields.Add(name, msgNotNegative)
		return 0, true, false
	}
	return uint(n), true, true
}
