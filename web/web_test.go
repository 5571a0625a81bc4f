package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForm_RejectsBadBaseURL(t *testing.T) {
	_, err := NewForm("localhost:5000")
	assert.Error(t, err)
}

func TestServePage_InjectsAPIBaseURL(t *testing.T) {
	f, err := NewForm("https://api.example.com/")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.ServePage(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `data-api-base="https://api.example.com"`)
	for _, field := range []string{`id="name"`, `id="email"`, `id="phone"`, `id="subject"`, `id="message"`} {
		assert.Contains(t, body, field)
	}
	assert.Contains(t, body, `<script src="/contact/app.js"></script>`)
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "connect-src 'self' https://api.example.com")
}

func TestServePage_SameOrigin(t *testing.T) {
	f, err := NewForm("")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.ServePage(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	assert.Contains(t, rec.Body.String(), `data-api-base=""`)
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "connect-src 'self';")
}

func TestServeScript(t *testing.T) {
	f, err := NewForm("http://localhost:5000")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.ServeScript(rec, httptest.NewRequest(http.MethodGet, "/contact/app.js", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "/api/contact")
	assert.Contains(t, rec.Body.String(), "'submitting'")
}
