package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndenisov/showcase/internal/server/entity"
)

// Resource serves the shared CRUD surface of a content collection:
// list, get by id, create, update and delete, with an optional file upload
// on the create and update paths.
type Resource struct {
	Repo *entity.Repository
	Name string

	// UploadField names the multipart file field; empty means JSON-only.
	UploadField string
	AllowedExts []string
	MaxUpload   int64

	// JSONFields lists the multipart form fields decoded as JSON values
	// (booleans, numbers, arrays). All other form fields stay strings.
	JSONFields []string

	// ListFilter derives a per-request record filter, e.g. hiding inactive
	// records from anonymous callers. Nil lists everything.
	ListFilter func(r *http.Request) func(entity.Document) bool

	// Decorate lets a route stamp request metadata onto a new record.
	Decorate func(r *http.Request, doc entity.Document)
}

func (res *Resource) notFound() string { return res.Name + " not found" }

func (res *Resource) List(w http.ResponseWriter, r *http.Request) {
	opts := entity.ListOptions{}
	if res.ListFilter != nil {
		opts.Filter = res.ListFilter(r)
	}
	page, err := res.Repo.List(r.Context(), opts)
	if err != nil {
		status, msg := errorStatus(err, res.notFound())
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, page.Items)
}

func (res *Resource) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := res.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, msg := errorStatus(err, res.notFound())
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (res *Resource) Create(w http.ResponseWriter, r *http.Request) {
	doc, file, err := parseBody(r, res.UploadField, res.AllowedExts, res.MaxUpload, res.JSONFields)
	if err != nil {
		status, msg := errorStatus(err, res.notFound())
		writeMessage(w, status, msg)
		return
	}
	if res.Decorate != nil {
		res.Decorate(r, doc)
	}
	created, err := res.Repo.Create(r.Context(), doc, file)
	if err != nil {
		status, msg := errorStatus(err, res.notFound())
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (res *Resource) Update(w http.ResponseWriter, r *http.Request) {
	doc, file, err := parseBody(r, res.UploadField, res.AllowedExts, res.MaxUpload, res.JSONFields)
	if err != nil {
		status, msg := errorStatus(err, res.notFound())
		writeMessage(w, status, msg)
		return
	}
	updated, err := res.Repo.Update(r.Context(), chi.URLParam(r, "id"), doc, file)
	if err != nil {
		status, msg := errorStatus(err, res.notFound())
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (res *Resource) Delete(w http.ResponseWriter, r *http.Request) {
	if err := res.Repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		status, msg := errorStatus(err, res.notFound())
		writeMessage(w, status, msg)
		return
	}
	writeMessage(w, http.StatusOK, res.Name+" removed")
}

// ActiveUnlessAdminAll hides inactive records unless an admin explicitly
// requests the full set with ?all=true.
func ActiveUnlessAdminAll(r *http.Request) func(entity.Document) bool {
	u := UserFromContext(r.Context())
	if u != nil && u.IsAdminLike() && strings.EqualFold(r.URL.Query().Get("all"), "true") {
		return nil
	}
	return func(doc entity.Document) bool { return doc.Bool("isActive") }
}
