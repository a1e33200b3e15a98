package domain

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidPhone = errors.New("phone must be exactly 10 digits")
)

var (
	emailRe = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[A-Za-z]{2,7}$`)
	phoneRe = regexp.MustCompile(`^\d{10}$`)
)

// validate is the shared validator with the registration rules attached.
// The built-in "email" rule is RFC-permissive; the booking form has
// always enforced its own stricter pattern, so that pattern is kept.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "turnos_email", emailRe)
	mustRegister(v, "turnos_phone", phoneRe)
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// ValidateName fails when the name is empty or whitespace-only.
func ValidateName(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "required"); err != nil {
		return ErrEmptyName
	}
	return nil
}

// ValidateEmail checks the registration email pattern.
func ValidateEmail(s string) error {
	if err := validate.Var(s, "required,turnos_email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePhone checks for exactly 10 decimal digits.
func ValidatePhone(s string) error {
	if err := validate.Var(s, "required,turnos_phone"); err != nil {
		return ErrInvalidPhone
	}
	return nil
}

// FieldErrors aggregates per-field registration failures so a form can
// show every problem at once.
type FieldErrors map[string]error

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fe))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f].Error())
	}
	return strings.Join(parts, "; ")
}

// Field returns the error recorded for a field, or nil.
func (fe FieldErrors) Field(name string) error { return fe[name] }

// ValidateRegistration runs all three field rules without
// short-circuiting. It returns nil when everything passes.
func ValidateRegistration(name, email, phone string) error {
	fe := FieldErrors{}
	if err := ValidateName(name); err != nil {
		fe["name"] = err
	}
	if err := ValidateEmail(email); err != nil {
		fe["email"] = err
	}
	if err := ValidatePhone(phone); err != nil {
		fe["phone"] = err
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
