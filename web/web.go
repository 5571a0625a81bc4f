// Package web serves the contact form UI.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

//go:embed index.html app.js
var assets embed.FS

// Form renders the contact form page and its script.
type Form struct {
	apiBaseURL string
	csp        string
	page       *template.Template
	script     []byte
}

type pageData struct {
	APIBaseURL string
}

// NewForm parses the embedded page. apiBaseURL is where the form posts
// submissions; empty means same origin.
func NewForm(apiBaseURL string) (*Form, error) {
	apiBaseURL = strings.TrimRight(apiBaseURL, "/")

	connect := "'self'"
	if apiBaseURL != "" {
		u, err := url.Parse(apiBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid api base url %q", apiBaseURL)
		}
		connect += " " + u.Scheme + "://" + u.Host
	}

	page, err := template.ParseFS(assets, "index.html")
	if err != nil {
		return nil, fmt.Errorf("parse form page: %w", err)
	}
	script, err := assets.ReadFile("app.js")
	if err != nil {
		return nil, fmt.Errorf("read form script: %w", err)
	}

	return &Form{
		apiBaseURL: apiBaseURL,
		csp: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
			"connect-src " + connect + "; frame-ancestors 'none'",
		page:   page,
		script: script,
	}, nil
}

// ServePage handles GET /contact.
func (f *Form) ServePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := f.page.Execute(&buf, pageData{APIBaseURL: f.apiBaseURL}); err != nil {
		slog.Error("render form page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Security-Policy", f.csp)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// ServeScript handles GET /contact/app.js.
func (f *Form) ServeScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(f.script)
}
