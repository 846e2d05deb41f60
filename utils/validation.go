package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
)

// SanitizeString removes HTML tags and escapes special characters
func SanitizeString(input string) string {
	sanitized := html.EscapeString(input)
	htmlTagRegex := regexp.MustCompile(`<[^>]*>`)
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")
	return strings.TrimSpace(sanitized)
}

// ValidateEmail checks the email format
func ValidateEmail(email string) *FieldValidationError {
	if email == "" {
		return &FieldValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &FieldValidationError{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

// ValidatePhone checks the phone number format (E.164-ish)
func ValidatePhone(phone string) *FieldValidationError {
	if phone == "" {
		return &FieldValidationError{Field: "phone", Message: "Phone is required"}
	}
	if !phoneRegex.MatchString(phone) {
		return &FieldValidationError{Field: "phone", Message: "Invalid phone number"}
	}
	return nil
}

// ValidateName checks name length bounds
func ValidateName(name string) *FieldValidationError {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return &FieldValidationError{
			Field:   "name",
			Message: fmt.Sprintf("Name must be between %d and %d characters", MinNameLength, MaxNameLength),
		}
	}
	return nil
}

// ValidatePassword enforces length and character-class requirements
func ValidatePassword(password string) *FieldValidationError {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return &FieldValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength),
		}
	}
	if !hasLower.MatchString(password) || !hasUpper.MatchString(password) || !hasNumber.MatchString(password) {
		return &FieldValidationError{
			Field:   "password",
			Message: "Password must contain at least one lowercase letter, one uppercase letter and one number",
		}
	}
	return nil
}
