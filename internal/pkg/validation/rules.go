package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Phone validation pattern - optional leading +, 7 to 15 digits
	PhonePattern = `^\+?\d{7,15}$`

	// Admission number pattern - ADM prefix, 4-digit year, 5-digit suffix
	AdmissionNumberPattern = `^ADM\d{9}$`

	// Name validation max length
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone           *regexp.Regexp
	AdmissionNumber *regexp.Regexp
}{
	Phone:           regexp.MustCompile(PhonePattern),
	AdmissionNumber: regexp.MustCompile(AdmissionNumberPattern),
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// ValidName reports whether s is an acceptable person name. A single letter
// is a valid name; only the length ceiling is enforced. Empty values pass
// when required is false.
func ValidName(s string, required bool) bool {
	return NewStringValidation(s).
		WithRequired(required).
		WithMaxLength(NameMaxLength).
		Validate()
}

// ValidPhone reports whether s looks like a phone number. Empty values pass
// when required is false.
func ValidPhone(s string, required bool) bool {
	return NewStringValidation(s).
		WithRequired(required).
		WithPattern(CompiledPatterns.Phone).
		Validate()
}

// ValidAdmissionNumber reports whether s matches the generated admission
// number format.
func ValidAdmissionNumber(s string) bool {
	return CompiledPatterns.AdmissionNumber.MatchString(s)
}
