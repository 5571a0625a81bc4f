package mail

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/contactform/backend/internal/model"
)

//go:embed templates/*
var templatesFS embed.FS

const (
	autoReplySubject = "Thank you for contacting us!"
	timeLayout       = "Jan 2, 2006 15:04:05 MST"
)

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/*.txt"))
)

type templateData struct {
	Contact      *model.Contact
	Phone        string
	MessageLines []string
	SubmittedAt  string
}

func newTemplateData(c *model.Contact, now time.Time) templateData {
	phone := c.Phone
	if phone == "" {
		phone = "Not provided"
	}
	return templateData{
		Contact:      c,
		Phone:        phone,
		MessageLines: strings.Split(c.Message, "\n"),
		SubmittedAt:  now.Format(timeLayout),
	}
}

func renderNotification(c *model.Contact, to string, now time.Time) (*Message, error) {
	data := newTemplateData(c, now)

	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "notification.html", data); err != nil {
		return nil, err
	}
	if err := textTemplates.ExecuteTemplate(&text, "notification.txt", data); err != nil {
		return nil, err
	}
	return &Message{
		To:      to,
		Subject: "New Contact: " + c.Subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func renderAutoReply(c *model.Contact, now time.Time) (*Message, error) {
	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "autoreply.html", newTemplateData(c, now)); err != nil {
		return nil, err
	}
	return &Message{
		To:      c.Email,
		Subject: autoReplySubject,
		HTML:    html.String(),
	}, nil
}
