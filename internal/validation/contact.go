// Package validation checks contact form payloads before they reach the service.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/contactform/backend/internal/model"
)

const (
	MinNameLength    = 2
	MaxNameLength    = 100
	MinMessageLength = 10
	MaxMessageLength = 2000
	MaxSubjectLength = 200
)

// User-facing reasons, returned verbatim in 400 responses.
const (
	MsgRequired      = "Name, email, subject, and message are required fields"
	MsgNameLength    = "Name must be between 2 and 100 characters"
	MsgMessageLength = "Message must be between 10 and 2000 characters"
	MsgInvalidEmail  = "Please provide a valid email address"
	MsgSubjectLength = "Subject must be at most 200 characters"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error is a client-caused validation failure.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// ValidateContact returns an *Error for the first failing check, or nil.
// Checks run in a fixed order: required fields, name length, message length,
// email format, subject length. Lengths count runes of the trimmed value.
func ValidateContact(req *model.ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)

	if name == "" || email == "" || subject == "" || message == "" {
		return &Error{Message: MsgRequired}
	}
	if !between(name, MinNameLength, MaxNameLength) {
		return &Error{Message: MsgNameLength}
	}
	if !between(message, MinMessageLength, MaxMessageLength) {
		return &Error{Message: MsgMessageLength}
	}
	if !IsEmail(email) {
		return &Error{Message: MsgInvalidEmail}
	}
	if utf8.RuneCountInString(subject) > MaxSubjectLength {
		return &Error{Message: MsgSubjectLength}
	}
	return nil
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func between(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
