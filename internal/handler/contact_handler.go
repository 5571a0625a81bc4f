package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/repository"
	"github.com/contactform/backend/internal/service"
	"github.com/contactform/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 10 << 20

const (
	msgSubmitted     = "Message sent successfully! We'll get back to you soon."
	msgSubmitFailed  = "Failed to send message. Please try again later."
	msgInvalidBody   = "Invalid request body"
	msgListFailed    = "Failed to fetch contacts"
	msgUpdateFailed  = "Failed to update contact"
	msgContactAbsent = "Contact not found"
)

type contactRequestKey struct{}

// ContactHandler handles contact form submission and the admin endpoints.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ValidateContact decodes the JSON body of POST /api/contact and rejects it
// with 400 unless it passes validation.ValidateContact. The decoded request
// is handed to the next handler through the context.
func (h *ContactHandler) ValidateContact(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.ContactRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		if err := validation.ValidateContact(&req); err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Message)
				return
			}
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		ctx := context.WithValue(r.Context(), contactRequestKey{}, &req)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// submitResponse is the JSON response for a stored submission.
type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Submit handles POST /api/contact. It must run behind ValidateContact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, ok := r.Context().Value(contactRequestKey{}).(*model.ContactRequest)
	if !ok {
		slog.Error("contact submit called without validated request")
		writeError(w, http.StatusInternalServerError, msgSubmitFailed)
		return
	}

	meta := model.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
	contact, err := h.contactService.Submit(r.Context(), req, meta)
	if err != nil {
		slog.Error("contact form error", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeError(w, http.StatusInternalServerError, msgSubmitFailed)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		Success: true,
		Message: msgSubmitted,
		ID:      contact.ID,
	})
}

// adminListResponse is the JSON response for GET /api/admin/contacts.
type adminListResponse struct {
	Success    bool             `json:"success"`
	Contacts   []*model.Contact `json:"contacts"`
	Pagination model.Pagination `json:"pagination"`
}

// AdminList handles GET /api/admin/contacts?page=&limit=.
// Missing or unparsable values fall back to the service defaults.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", service.DefaultPage)
	limit := queryInt(r, "limit", service.DefaultLimit)

	result, err := h.contactService.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("error fetching contacts", "error", err)
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	writeJSON(w, http.StatusOK, adminListResponse{
		Success:    true,
		Contacts:   result.Contacts,
		Pagination: result.Pagination,
	})
}

type contactResponse struct {
	Success bool           `json:"success"`
	Contact *model.Contact `json:"contact"`
}

// MarkRead handles PATCH /api/admin/contacts/{id}/read.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.contactService.MarkRead(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgContactAbsent)
		return
	}
	if err != nil {
		slog.Error("error marking contact as read", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgUpdateFailed)
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{Success: true, Contact: contact})
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}
