// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone accepts digits with optional leading +, spaces, dashes and parentheses.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidateClockTime accepts HH:MM and HH:MM:SS in 24 hour form.
func ValidateClockTime(value string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// ValidateFieldValue checks a non-empty form value against its input type.
// Unknown types and plain text always pass.
func ValidateFieldValue(fieldType, value string) bool {
	switch fieldType {
	case "email":
		return ValidateEmail(value)
	case "tel":
		return ValidatePhone(value)
	case "time":
		return ValidateClockTime(value)
	}
	return true
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
