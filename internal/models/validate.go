package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by request and upstream-payload checks. Reported field
// names follow the json tag so they match the wire format.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateUpstream checks a decoded upstream payload against its declared
// field constraints.
func ValidateUpstream(payload any) error {
	return validate.Struct(payload)
}

// malformedField converts the first validator failure into the request error
// the caller surfaces.
func malformedField(fe validator.FieldError) *MalformedInputError {
	switch fe.Tag() {
	case "required":
		return &MalformedInputError{Field: fe.Field(), Reason: "must not be empty"}
	case "gt", "gte":
		return &MalformedInputError{Field: fe.Field(), Reason: "must be a positive integer"}
	default:
		return &MalformedInputError{Field: fe.Field(), Reason: fmt.Sprintf("failed %q constraint", fe.Tag())}
	}
}

func firstFieldError(err error) (validator.FieldError, bool) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldErrs[0], true
	}
	return nil, false
}
