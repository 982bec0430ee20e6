// Package validation exposes the strict address check as a govalidator struct
// tag so request and config types can declare it next to their fields:
//
//	type Signup struct {
//		Email string `valid:"required,perfectemail"`
//	}
//
// govalidator skips empty optional fields, so combine the tag with "required"
// when the field must be present.
package validation

import (
	"errors"
	"fmt"

	"github.com/asaskevich/govalidator"

	"github.com/dgellow/perfectemail/emailutil"
)

// Tag is the struct tag name registered with govalidator.
const Tag = "perfectemail"

func init() {
	govalidator.TagMap[Tag] = govalidator.Validator(emailutil.IsValid)
}

// Struct validates every `valid` tag on v. It returns nil when v passes.
func Struct(v any) error {
	ok, err := govalidator.ValidateStruct(v)
	if err != nil {
		return fmt.Errorf("validating %T: %w", v, err)
	}
	if !ok {
		return fmt.Errorf("validating %T: failed", v)
	}
	return nil
}

// IsEmail reports whether v is a string holding a valid address. The value is
// checked exactly as given; any other type is invalid.
func IsEmail(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return emailutil.IsValid(s)
}

// FieldErrors flattens a Struct error into a field name to message map. It
// returns nil for errors that did not come from tag validation.
func FieldErrors(err error) map[string]string {
	var errs govalidator.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	return govalidator.ErrorsByField(errs)
}
