// Package validators holds the field rules shared by the request
// validators of each area.
package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsEmail reports whether s is a well formed email address.
func IsEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// IsDate reports whether s is a YYYY-MM-DD date.
func IsDate(s string) bool {
	return validate.Var(s, "required,datetime=2006-01-02") == nil
}

// IsOTP reports whether s is a six digit code.
func IsOTP(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,numeric,len=6") == nil
}

// Blank reports whether s is empty after trimming.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
