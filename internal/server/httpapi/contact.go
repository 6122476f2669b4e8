package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndenisov/showcase/internal/server/services"
)

// ContactHandler serves public contact form submissions and the admin
// submission inbox.
type ContactHandler struct {
	Contacts  *services.Contacts
	MaxUpload int64
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	doc, file, err := parseBody(r, "resume", resumeExts, h.MaxUpload, nil)
	if err != nil {
		h.fail(w, err)
		return
	}
	created, err := h.Contacts.Submit(r.Context(), doc, file)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Submission received",
		Data:    created,
	})
}

func (h *ContactHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Contacts.Submissions(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	count := len(docs)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: docs})
}

func (h *ContactHandler) Reply(w http.ResponseWriter, r *http.Request) {
	doc, _, err := parseBody(r, "", nil, 0, nil)
	if err != nil {
		h.fail(w, err)
		return
	}
	repliedBy := ""
	if u := UserFromContext(r.Context()); u != nil {
		repliedBy = u.Name
	}
	updated, err := h.Contacts.Reply(r.Context(), chi.URLParam(r, "id"), doc.String("message"), repliedBy)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Reply sent", Data: updated})
}

func (h *ContactHandler) fail(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err, "Submission not found")
	writeEnvelopeError(w, status, msg)
}
