package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndenisov/showcase/internal/server/entity"
	"github.com/ndenisov/showcase/internal/server/services"
)

const (
	defaultGalleryLimit = 12
	maxGalleryLimit     = 100
)

// galleryJSONFields are the multipart form fields with structured values.
// The event date arrives as a string and is parsed by the repository.
var galleryJSONFields = []string{"isActive"}

// GalleryHandler serves the gallery collection and its category management.
type GalleryHandler struct {
	Gallery   *services.Gallery
	MaxUpload int64
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultGalleryLimit
	}
	if limit > maxGalleryLimit {
		limit = maxGalleryLimit
	}
	category := q.Get("category")

	opts := entity.ListOptions{
		Page:    page,
		Limit:   limit,
		SortAsc: strings.EqualFold(q.Get("sort"), "asc"),
		Filter: func(doc entity.Document) bool {
			if !doc.Bool("isActive") || doc.String("title") == entity.PlaceholderTitle {
				return false
			}
			if category != "" && !strings.EqualFold(category, "all") {
				return doc.String("category") == category
			}
			return true
		},
	}

	result, err := h.Gallery.Repo().List(r.Context(), opts)
	if err != nil {
		h.fail(w, err)
		return
	}
	count := len(result.Items)
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Count:      &count,
		Data:       result.Items,
		Pagination: result.Pagination,
	})
}

func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Gallery.Repo().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: doc})
}

func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, file, err := parseBody(r, "image", imageExts, h.MaxUpload, galleryJSONFields)
	if err != nil {
		h.fail(w, err)
		return
	}
	created, err := h.Gallery.Repo().Create(r.Context(), doc, file)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Gallery item created", Data: created})
}

func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	doc, file, err := parseBody(r, "image", imageExts, h.MaxUpload, galleryJSONFields)
	if err != nil {
		h.fail(w, err)
		return
	}
	updated, err := h.Gallery.Repo().Update(r.Context(), chi.URLParam(r, "id"), doc, file)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Gallery item updated", Data: updated})
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Gallery.Repo().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Gallery item deleted"})
}

func (h *GalleryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Gallery.Categories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: categories})
}

func (h *GalleryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	doc, _, err := parseBody(r, "", nil, 0, nil)
	if err != nil {
		h.fail(w, err)
		return
	}
	name, err := h.Gallery.CreateCategory(r.Context(), doc.String("category"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Category created",
		Data:    name,
	})
}

func (h *GalleryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Gallery.DeleteCategory(r.Context(), name); err != nil {
		var blocked *services.BlockedCategoryError
		if errors.As(err, &blocked) {
			writeEnvelopeError(w, http.StatusBadRequest,
				fmt.Sprintf("Cannot delete. %d items using this category.", blocked.Count))
			return
		}
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Category deleted"})
}

func (h *GalleryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Gallery.Stats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: stats})
}

func (h *GalleryHandler) fail(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err, "Gallery item not found")
	writeEnvelopeError(w, status, msg)
}
