// Package validate plugs go-playground/validator into echo.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator. Field names in returned
// validator.ValidationErrors are the JSON names, so they can be reported
// back to clients as-is.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with required-struct checks enabled.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks i against its `validate` struct tags.
func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
