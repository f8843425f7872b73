package contact

import (
	"net/mail"
	"strings"
	"unicode"
)

const (
	maxNameLen    = 100
	maxSubjectLen = 200
	minMessageLen = 10
	maxMessageLen = 5000
)

// Submission is a validated, sanitized contact-form payload.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateSubmission trims and sanitizes the raw form fields and returns the
// cleaned submission together with any field errors.
func ValidateSubmission(name, email, subject, message string) (Submission, []FieldError) {
	var errs []FieldError

	sub := Submission{
		Name:    sanitize(name),
		Email:   strings.TrimSpace(email),
		Subject: sanitize(subject),
		Message: sanitize(message),
	}

	if sub.Name == "" {
		errs = append(errs, FieldError{"name", "name is required"})
	} else if len(sub.Name) > maxNameLen {
		errs = append(errs, FieldError{"name", "name must be at most 100 characters"})
	}

	if sub.Email == "" {
		errs = append(errs, FieldError{"email", "email is required"})
	} else if a, err := mail.ParseAddress(sub.Email); err != nil || a.Address != sub.Email {
		errs = append(errs, FieldError{"email", "email must be a valid address"})
	}

	if len(sub.Subject) > maxSubjectLen {
		errs = append(errs, FieldError{"subject", "subject must be at most 200 characters"})
	}

	switch {
	case sub.Message == "":
		errs = append(errs, FieldError{"message", "message is required"})
	case len(sub.Message) < minMessageLen:
		errs = append(errs, FieldError{"message", "message must be at least 10 characters"})
	case len(sub.Message) > maxMessageLen:
		errs = append(errs, FieldError{"message", "message must be at most 5000 characters"})
	}

	return sub, errs
}

// sanitize trims whitespace and strips control characters except newlines.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
