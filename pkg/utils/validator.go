package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	controlRegex = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// MaxDailyHours caps a single timesheet entry
const MaxDailyHours = 24.0

// ValidateEmail validates an email address. Empty is allowed.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateID rejects blank identifiers and identifiers with control characters
func ValidateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id is required", kind)
	}
	if controlRegex.MatchString(id) {
		return fmt.Errorf("%s id contains control characters: %q", kind, id)
	}
	return nil
}

// ValidateHours validates the hours booked on one entry
func ValidateHours(hours float64) error {
	if hours < 0 {
		return fmt.Errorf("hours must not be negative: %.2f", hours)
	}

	if hours > MaxDailyHours {
		return fmt.Errorf("hours exceed a day: %.2f", hours)
	}

	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlRegex.ReplaceAllString(s, "")
}
