// Package validation checks request values and reports failures as
// invalid_input domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "passport/pkg/domain-errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// fieldName reports a field by its query or json name, else its lowercased Go name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"query", "json"} {
		if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// messages maps a failed tag to its message; %[1]s is the field, %[2]s the tag parameter.
var messages = map[string]string{
	"required": "%[1]s is required",
	"notblank": "%[1]s must not be blank",
	"eth_addr": "%[1]s must be a 0x-prefixed address",
	"min":      "%[1]s must be at least %[2]s",
	"max":      "%[1]s must be at most %[2]s",
	"oneof":    "%[1]s must be one of [%[2]s]",
}

// Validate checks req against its validate tags.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, ErrorMessage(err))
	}
	return nil
}

// IsEthAddress reports whether value is a 0x-prefixed 20-byte hex address.
func IsEthAddress(value string) bool {
	return validate.Var(value, "required,eth_addr") == nil
}

// ErrorMessage describes the first failed field of a validator error.
func ErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}

	fe := fieldErrs[0]
	if format, ok := messages[fe.ActualTag()]; ok {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
