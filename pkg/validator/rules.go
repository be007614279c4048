package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// emailRegex checks the local@domain.tld shape without attempting full
// RFC 5322 parsing. Matches the structural check used on the client side so
// both ends agree on what "looks like an email" means.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RequiredString validates that a string is not empty after trimming.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "is required",
		},
	}
}

// MinTrimmedLen validates that a string has at least min characters after
// trimming surrounding whitespace.
func MinTrimmedLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(strings.TrimSpace(value)) >= min
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters long", min),
		},
	}
}

// MaxLen validates that a string has at most max bytes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
		},
	}
}

// ValidEmail validates the structural local@domain.tld shape.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return emailRegex.MatchString(strings.TrimSpace(value))
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

// EmptyString validates that a field is empty. Used for honeypot fields
// which only automated submissions fill in.
func EmptyString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) == ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be empty",
		},
	}
}
