package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Ayşe", true))
	assert.True(t, ValidName("A", true))
	assert.False(t, ValidName("", true))
	assert.True(t, ValidName("", false))
	assert.False(t, ValidName(strings.Repeat("a", NameMaxLength+1), true))
	assert.False(t, ValidName(strings.Repeat("a", NameMaxLength+1), false))
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone    string
		required bool
		want     bool
	}{
		{"+905551112233", true, true},
		{"5551112233", true, true},
		{"", false, true},
		{"", true, false},
		{"123", false, false},
		{"555-111-2233", false, false},
		{"+1234567890123456", false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPhone(tt.phone, tt.required), "phone %q required %v", tt.phone, tt.required)
	}
}

func TestValidAdmissionNumber(t *testing.T) {
	assert.True(t, ValidAdmissionNumber("ADM202600042"))
	assert.False(t, ValidAdmissionNumber("adm202600042"))
	assert.False(t, ValidAdmissionNumber("ADM2026000421"))
	assert.False(t, ValidAdmissionNumber("ADM20260042"))
	assert.False(t, ValidAdmissionNumber(""))
}

func TestStringValidation_Builder(t *testing.T) {
	assert.True(t, NewStringValidation("hello").WithMinLength(3).WithMaxLength(10).Validate())
	assert.False(t, NewStringValidation("hi").WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("this value is far too long").WithMaxLength(10).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).WithPattern(CompiledPatterns.Phone).Validate())
	assert.False(t, NewStringValidation("abc").WithPattern(CompiledPatterns.Phone).Validate())
}
