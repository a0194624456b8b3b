// Package form validates contact-form field values. Field checks are independent of one another,
// their errors accumulate in field order: name, e-mail, message.
package form

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/venkm/formrelay/validator"
)

const (
	MinNameLength    = 2
	MaxNameLength    = 100
	MinMessageLength = 10
	MaxMessageLength = 2000
)

// Config holds the form-level validation toggles. Read-only after startup.
type Config struct {
	// RequireMinimumMessageLength enforces MinMessageLength on the trimmed message
	RequireMinimumMessageLength bool
}

// Values are the raw, unvalidated fields of one submission
type Values struct {
	Name    string
	Email   string
	Message string
}

// FieldErrors collects the human-readable errors of one submission, insertion order is display
// order. An empty slice means the submission is valid.
type FieldErrors []string

func (fe FieldErrors) Contains(message string) bool {
	for _, e := range fe {
		if e == message {
			return true
		}
	}

	return false
}

// Join concatenates all errors with the given delimiter
func (fe FieldErrors) Join(delimiter string) string {
	return strings.Join(fe, delimiter)
}

// EmailChecker is the part of the e-mail validator the form cares about
type EmailChecker interface {
	Validate(ctx context.Context, email string) validator.Result
}

func NewValidator(email EmailChecker, cfg Config) Validator {
	return Validator{
		email: email,
		cfg:   cfg,
	}
}

type Validator struct {
	email EmailChecker
	cfg   Config
}

// Validate runs every field check and returns the accumulated errors. Within a field the first
// failing check wins, the fields themselves never short-circuit each other. Minimum lengths apply
// to the trimmed value, maximum lengths to the raw value. Lengths count characters, not bytes.
func (v Validator) Validate(ctx context.Context, values Values) FieldErrors {
	var errs FieldErrors

	switch {
	case values.Name == "":
		errs = append(errs, "Name is required")
	case utf8.RuneCountInString(strings.TrimSpace(values.Name)) < MinNameLength:
		errs = append(errs, "Name must be at least 2 characters long")
	case utf8.RuneCountInString(values.Name) > MaxNameLength:
		errs = append(errs, "Name is too long (maximum 100 characters)")
	}

	if values.Email == "" {
		errs = append(errs, "Email address is required")
	} else if result := v.email.Validate(ctx, strings.TrimSpace(values.Email)); !result.Accepted {
		errs = append(errs, result.Reason)
	}

	switch {
	case values.Message == "":
		errs = append(errs, "Message is required")
	case strings.TrimSpace(values.Message) == "":
		errs = append(errs, "Message cannot be empty")
	case v.cfg.RequireMinimumMessageLength && utf8.RuneCountInString(strings.TrimSpace(values.Message)) < MinMessageLength:
		errs = append(errs, "Message must be at least 10 characters long")
	case utf8.RuneCountInString(values.Message) > MaxMessageLength:
		errs = append(errs, "Message is too long (maximum 2000 characters)")
	}

	return errs
}
