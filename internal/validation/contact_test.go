package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/contactform/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *model.ContactRequest {
	return &model.ContactRequest{
		Name:    "Alice Example",
		Email:   "alice@example.com",
		Subject: "Question",
		Message: "Hello, I have a question about pricing.",
	}
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %T", err)
	return verr.Message
}

func TestValidateContact_Valid(t *testing.T) {
	assert.NoError(t, ValidateContact(validRequest()))
}

func TestValidateContact_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.ContactRequest)
	}{
		{"missing name", func(r *model.ContactRequest) { r.Name = "" }},
		{"missing email", func(r *model.ContactRequest) { r.Email = "" }},
		{"missing subject", func(r *model.ContactRequest) { r.Subject = "" }},
		{"missing message", func(r *model.ContactRequest) { r.Message = "" }},
		{"whitespace name", func(r *model.ContactRequest) { r.Name = "   " }},
		{"whitespace subject", func(r *model.ContactRequest) { r.Subject = "\t\n" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.Equal(t, MsgRequired, messageOf(t, ValidateContact(req)))
		})
	}
}

func TestValidateContact_NameLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"one char", "A", true},
		{"two chars", "Jo", false},
		{"hundred chars", strings.Repeat("n", 100), false},
		{"hundred and one chars", strings.Repeat("n", 101), true},
		{"multibyte counted as runes", "山田", false},
		{"padding is trimmed", "  A  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.Name = tt.value
			err := ValidateContact(req)
			if tt.wantErr {
				assert.Equal(t, MsgNameLength, messageOf(t, err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContact_MessageLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"nine chars", strings.Repeat("m", 9), true},
		{"ten chars", strings.Repeat("m", 10), false},
		{"two thousand chars", strings.Repeat("m", 2000), false},
		{"two thousand and one chars", strings.Repeat("m", 2001), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.Message = tt.value
			err := ValidateContact(req)
			if tt.wantErr {
				assert.Equal(t, MsgMessageLength, messageOf(t, err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContact_EmailFormat(t *testing.T) {
	for _, bad := range []string{"bad", "a@b", "@example.com", "a b@example.com", "a@@example.com", "alice@example"} {
		t.Run(bad, func(t *testing.T) {
			req := validRequest()
			req.Email = bad
			assert.Equal(t, MsgInvalidEmail, messageOf(t, ValidateContact(req)))
		})
	}
	for _, good := range []string{"x@y.z", "Alice@Example.COM", "  a.b+c@sub.example.org  "} {
		t.Run(good, func(t *testing.T) {
			req := validRequest()
			req.Email = good
			assert.NoError(t, ValidateContact(req))
		})
	}
}

func TestValidateContact_SubjectLength(t *testing.T) {
	req := validRequest()
	req.Subject = strings.Repeat("s", 200)
	assert.NoError(t, ValidateContact(req))

	req.Subject = strings.Repeat("s", 201)
	assert.Equal(t, MsgSubjectLength, messageOf(t, ValidateContact(req)))
}

// The first failing check wins: presence, name, message, email, subject.
func TestValidateContact_Order(t *testing.T) {
	req := &model.ContactRequest{Name: "J", Email: "bad", Subject: "Hi", Message: "short"}
	assert.Equal(t, MsgNameLength, messageOf(t, ValidateContact(req)))

	req.Name = "Jo"
	assert.Equal(t, MsgMessageLength, messageOf(t, ValidateContact(req)))

	req.Message = "long enough message"
	assert.Equal(t, MsgInvalidEmail, messageOf(t, ValidateContact(req)))

	req.Email = "jo@example.com"
	req.Subject = strings.Repeat("s", 201)
	assert.Equal(t, MsgSubjectLength, messageOf(t, ValidateContact(req)))
}

func TestValidateContact_DoesNotMutate(t *testing.T) {
	req := &model.ContactRequest{Name: "  Alice ", Email: " A@B.CO ", Subject: " Hi ", Message: "  a valid message  "}
	require.NoError(t, ValidateContact(req))
	assert.Equal(t, "  Alice ", req.Name)
	assert.Equal(t, " A@B.CO ", req.Email)
}
