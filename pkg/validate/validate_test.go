package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\t\n"))
	assert.False(t, IsBlank("x"))
	assert.False(t, IsBlank("  x  "))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"a@b.com",
		"first.last@example.co.uk",
		"user+tag@domain.org",
		`"quoted"@example.com`,
		"name@[192.168.1.1]",
	}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), "expected %q to be valid", e)
	}

	invalid := []string{
		"not-an-email",
		"missing@tld",
		"@nouser.com",
		"spaces in@name.com",
		"double@@at.com",
		"",
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), "expected %q to be invalid", e)
	}
}

func TestStripAbsentFields(t *testing.T) {
	body := map[string]any{
		"name":        "Ada",
		"phone":       "",
		"address":     nil,
		"isUser":      true,
		"isAdmin":     false,
		"age":         float64(0),
		"count":       float64(3),
		"description": "kept",
	}

	got := StripAbsentFields(body)

	assert.Equal(t, map[string]any{
		"name":        "Ada",
		"isUser":      true,
		"count":       float64(3),
		"description": "kept",
	}, got)

	// The input map is left untouched.
	assert.Len(t, body, 8)
}
