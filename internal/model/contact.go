package model

import "time"

// Contact represents a message submitted via the contact form.
// Content fields are immutable once stored; only IsRead changes, and only to true.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// ContactRequest is the JSON body accepted by POST /api/contact.
// Phone is a pointer so that an absent field can be told apart from "".
type ContactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Subject string  `json:"subject"`
	Message string  `json:"message"`
}

// RequestMeta carries the client details captured at submission time.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// ContactListOptions carries pagination parameters for listing contacts.
type ContactListOptions struct {
	Limit  int
	Offset int
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ContactPage is a page of contacts plus its pagination metadata.
type ContactPage struct {
	Contacts   []*Contact
	Pagination Pagination
}
