package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailRegex, basit email format kontrolü.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail, email'i kırpar ve küçük harfe çevirir.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if n > 128 {
		return fmt.Errorf("password must be at most 128 characters")
	}
	return nil
}

// validateLength, kırpılmış alanın rune sayısını [min, max] aralığında kontrol eder.
func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		if min == 1 {
			return fmt.Errorf("%s is required", field)
		}
		return fmt.Errorf("%s must be at least %d characters", field, min)
	}
	if n > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
