package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/blobstore"
	"github.com/ndenisov/showcase/internal/server/config"
	"github.com/ndenisov/showcase/internal/server/docstore"
	"github.com/ndenisov/showcase/internal/server/entity"
	"github.com/ndenisov/showcase/internal/server/mail"
	"github.com/ndenisov/showcase/internal/server/services"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, mail.Message) error { return nil }

type testEnv struct {
	handler http.Handler
	users   *services.Users
	blobs   *blobstore.MemStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := docstore.NewMemStore()
	blobs := blobstore.NewMemStore()
	log := logging.Discard()
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		MaxUploadBytes:        1 << 20,
	}

	newRepo := func(def entity.Definition) *entity.Repository {
		return entity.NewRepository(def, store, blobs, log)
	}

	users := services.NewUsers(store, cfg, log)
	handler := NewRouter(Deps{
		Users:         users,
		Gallery:       services.NewGallery(newRepo(entity.GalleryItems()), log),
		Contacts:      services.NewContacts(newRepo(entity.Contacts()), nopMailer{}, "admin@example.com", log),
		Clients:       newRepo(entity.Clients()),
		Team:          newRepo(entity.TeamMembers()),
		Portfolios:    newRepo(entity.Portfolios()),
		Services:      newRepo(entity.Services()),
		Sentences:     newRepo(entity.Sentences()),
		Store:         store,
		MaxUpload:     cfg.MaxUploadBytes,
		AllowedOrigin: "*",
		Log:           log,
	})

	return &testEnv{handler: handler, users: users, blobs: blobs}
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	_, token, err := e.users.Register(context.Background(), "Admin", "admin@example.com", "pass123", "admin")
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_AuthFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "pass123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg map[string]string
	decodeBody(t, rec, &reg)
	assert.Equal(t, "jane@example.com", reg["email"])
	assert.NotEmpty(t, reg["token"])

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var dup map[string]string
	decodeBody(t, rec, &dup)
	assert.Equal(t, "User already exists", dup["message"])

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/auth/me", reg["token"], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	decodeBody(t, rec, &me)
	assert.Equal(t, "jane@example.com", me["email"])
	assert.NotContains(t, me, "password")
}

func TestRouter_AuthGating(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/clients/", "", map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Not authorized, no token", body["message"])

	rec = env.do(t, http.MethodPost, "/api/clients/", "garbage", map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "Not authorized, token failed", body["message"])

	_, userToken, err := env.users.Register(context.Background(), "User", "user@example.com", "pass123", "")
	require.NoError(t, err)
	rec = env.do(t, http.MethodPost, "/api/clients/", userToken, map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "Not authorized as an admin", body["message"])
}

func TestRouter_ClientCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/clients/", token, map[string]any{
		"name": "Acme", "website": "https://acme.test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	decodeBody(t, rec, &created)
	id := created["id"].(string)

	rec = env.do(t, http.MethodGet, "/api/clients/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/clients/"+id, token, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, rec.Code)

	// Anonymous listing hides the now-inactive record.
	rec = env.do(t, http.MethodGet, "/api/clients/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decodeBody(t, rec, &list)
	assert.Empty(t, list)

	// The admin can still see everything.
	rec = env.do(t, http.MethodGet, "/api/clients/?all=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &list)
	assert.Len(t, list, 1)

	rec = env.do(t, http.MethodDelete, "/api/clients/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg map[string]string
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Client removed", msg["message"])

	rec = env.do(t, http.MethodGet, "/api/clients/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Client not found", msg["message"])
}

func multipartRequest(t *testing.T, path, token string, fields map[string]string, fileField, fileName string, fileData []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRouter_TeamMemberUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	req := multipartRequest(t, "/api/team/", token,
		map[string]string{"name": "Dana", "role": "Engineer"},
		"image", "face.png", []byte("png-bytes"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	decodeBody(t, rec, &created)

	image, ok := created["image"].(map[string]any)
	require.True(t, ok, "image asset missing: %v", created)
	assert.NotEmpty(t, image["url"])
	assert.True(t, env.blobs.Has(image["key"].(string)))
}

func TestRouter_MultipartKeepsNumericLookingText(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	// Text fields must stay strings even when they parse as JSON; only the
	// declared structured fields (isActive here) change type.
	req := multipartRequest(t, "/api/clients/", token,
		map[string]string{
			"name":        "123",
			"description": "42",
			"isActive":    "false",
		},
		"", "", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	decodeBody(t, rec, &created)
	assert.Equal(t, "123", created["name"])
	assert.Equal(t, "42", created["description"])
	assert.Equal(t, false, created["isActive"])
}

func TestRouter_UploadRejectsWrongExtension(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	req := multipartRequest(t, "/api/team/", token,
		map[string]string{"name": "Dana"},
		"image", "notes.txt", []byte("hi"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Only image files allowed", body["message"])
	assert.Empty(t, env.blobs.Uploads)
}

func TestRouter_UploadRejectsOversizedFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	big := bytes.Repeat([]byte("a"), (1<<20)+1)
	req := multipartRequest(t, "/api/team/", token,
		map[string]string{"name": "Dana"},
		"image", "face.png", big)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "File too large", body["message"])
}

func TestRouter_SentenceCapturesUserAgent(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sentences/",
		strings.NewReader(`{"text":"ship it"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-browser/1.0")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	decodeBody(t, rec, &created)
	assert.Equal(t, "test-browser/1.0", created["userAgent"])
	assert.NotEmpty(t, created["timestamp"])
}

func TestRouter_GalleryListEnvelope(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	for i := 0; i < 3; i++ {
		req := multipartRequest(t, "/api/gallery/create", token,
			map[string]string{
				"title":       fmt.Sprintf("item-%d", i),
				"description": "d",
				"category":    "Fests",
				"date":        fmt.Sprintf("2024-0%d-01", i+1),
			},
			"image", "a.png", []byte("x"))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/api/gallery/?limit=2&page=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success    bool             `json:"success"`
		Count      int              `json:"count"`
		Data       []map[string]any `json:"data"`
		Pagination struct {
			CurrentPage int  `json:"currentPage"`
			TotalPages  int  `json:"totalPages"`
			TotalItems  int  `json:"totalItems"`
			HasNext     bool `json:"hasNext"`
			HasPrev     bool `json:"hasPrev"`
		} `json:"pagination"`
	}
	decodeBody(t, rec, &body)

	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Data, 2)
	// Newest event date first.
	assert.Equal(t, "item-2", body.Data[0]["title"])
	assert.Equal(t, 3, body.Pagination.TotalItems)
	assert.Equal(t, 2, body.Pagination.TotalPages)
	assert.True(t, body.Pagination.HasNext)
	assert.False(t, body.Pagination.HasPrev)
}

func TestRouter_GalleryCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/gallery/category/create", token,
		map[string]string{"category": "Conferences"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var createdCat struct {
		Success bool   `json:"success"`
		Data    string `json:"data"`
	}
	decodeBody(t, rec, &createdCat)
	assert.True(t, createdCat.Success)
	assert.Equal(t, "Conferences", createdCat.Data)

	rec = env.do(t, http.MethodGet, "/api/gallery/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats struct {
		Data []string `json:"data"`
	}
	decodeBody(t, rec, &cats)
	assert.Contains(t, cats.Data, "Conferences")

	// Placeholders never leak into the public listing.
	rec = env.do(t, http.MethodGet, "/api/gallery/?category=Conferences", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &list)
	assert.Equal(t, 0, list.Count)

	rec = env.do(t, http.MethodDelete, "/api/gallery/category/Conferences", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_GalleryCategoryDeleteBlocked(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	req := multipartRequest(t, "/api/gallery/create", token,
		map[string]string{
			"title":       "party",
			"description": "d",
			"category":    "Fests",
		},
		"image", "a.png", []byte("x"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/api/gallery/category/Fests", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "Cannot delete. 1 items using this category.", body.Message)
}

func TestRouter_ContactSubmitAndReply(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/contact/submit", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "subject": "Hello", "message": "Hi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	decodeBody(t, rec, &submitted)
	require.True(t, submitted.Success)
	id := submitted.Data["id"].(string)

	rec = env.do(t, http.MethodGet, "/api/contact/submissions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/contact/submissions/"+id+"/reply", token,
		map[string]string{"message": "Thanks!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var replied struct {
		Data map[string]any `json:"data"`
	}
	decodeBody(t, rec, &replied)
	assert.Equal(t, "replied", replied.Data["status"])

	rec = env.do(t, http.MethodGet, "/api/contact/submissions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &inbox)
	assert.Equal(t, 1, inbox.Count)
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/clients/", nil)
	req.Header.Set("Origin", "https://site.test")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
