package validate

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// IsBlank reports whether s is empty or whitespace-only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidEmail reports whether s full-matches the email grammar.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// StripAbsentFields returns a copy of body containing only keys with truthy
// values. Partial-update payloads pass through here so an update never
// overwrites untouched fields with empty values.
func StripAbsentFields(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for name, v := range body {
		if truthy(v) {
			out[name] = v
		}
	}
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}
