package normalizer

import (
	"fmt"
	"regexp"
)

// Default phone digit bounds.
const (
	DefaultPhoneMinDigits = 6
	DefaultPhoneMaxDigits = 20
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneSeparators  = regexp.MustCompile(`[\s\-().]`)
	phoneDigitsShape = regexp.MustCompile(`^\+?(\d+)$`)
)

// Validator checks resolved contact values. It never rewrites its input.
type Validator struct {
	phoneMinDigits int
	phoneMaxDigits int
}

// NewValidator creates a validator with the default phone bounds.
func NewValidator() *Validator {
	return NewValidatorWithBounds(DefaultPhoneMinDigits, DefaultPhoneMaxDigits)
}

// NewValidatorWithBounds creates a validator accepting minDigits..maxDigits phone digits.
func NewValidatorWithBounds(minDigits, maxDigits int) *Validator {
	return &Validator{
		phoneMinDigits: minDigits,
		phoneMaxDigits: maxDigits,
	}
}

// IsValidEmail reports whether s looks like local@domain.tld.
func (v *Validator) IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s, once separators are removed, is an optional
// '+' followed by an allowed number of digits.
func (v *Validator) IsValidPhone(s string) bool {
	m := phoneDigitsShape.FindStringSubmatch(CleanPhone(s))
	if m == nil {
		return false
	}

	n := len(m[1])

	return n >= v.phoneMinDigits && n <= v.phoneMaxDigits
}

// Validate checks email then phone and returns a *ValidationError for the first failure.
func (v *Validator) Validate(email, phone string) error {
	if email == "" {
		return &ValidationError{Field: FieldEmail, Value: email, Err: ErrMissingValue}
	}

	if !v.IsValidEmail(email) {
		return &ValidationError{Field: FieldEmail, Value: email, Err: ErrInvalidEmail}
	}

	if phone == "" {
		return &ValidationError{Field: FieldPhone, Value: phone, Err: ErrMissingValue}
	}

	if !v.IsValidPhone(phone) {
		return &ValidationError{
			Field: FieldPhone,
			Value: phone,
			Err:   fmt.Errorf("%w: want %d-%d digits", ErrInvalidPhone, v.phoneMinDigits, v.phoneMaxDigits),
		}
	}

	return nil
}

// CleanPhone strips whitespace, hyphens, parentheses and periods.
func CleanPhone(s string) string {
	return phoneSeparators.ReplaceAllString(s, "")
}
