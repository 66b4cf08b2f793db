package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"ana@example.edu", true},
		{"first.last+rd@agency.gov.ph", true},
		{"ana", false},
		{"ana@", false},
		{"@example.edu", false},
		{"ana@example", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("123456", 6))
	assert.NoError(t, ValidatePassword("pässwö", 6), "counts characters, not bytes")
	assert.Error(t, ValidatePassword("12345", 6))
	assert.Error(t, ValidatePassword(" 123456", 6))
	assert.Error(t, ValidatePassword("", 1))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Rice yield study", SanitizeString("  Rice\x00 yield study\x7f "))
	assert.Equal(t, "line one\nline two", SanitizeString("line one\nline two"))
	assert.Equal(t, "", SanitizeString("\x01\x02"))
}
