package models_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/blobstore"
	"github.com/ndenisov/showcase/internal/server/docstore"
	"github.com/ndenisov/showcase/internal/server/entity"
	"github.com/ndenisov/showcase/internal/server/models"
)

// These tests pin the wire layout: every record the CRUD engine produces
// must decode cleanly into its typed struct.

func newRepo(def entity.Definition) *entity.Repository {
	return entity.NewRepository(def, docstore.NewMemStore(), blobstore.NewMemStore(), logging.Discard())
}

func roundTrip(t *testing.T, doc entity.Document, out any) {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	require.NoError(t, dec.Decode(out), "record carries fields the struct does not: %s", raw)
}

func TestClientLayout(t *testing.T) {
	repo := newRepo(entity.Clients())
	doc, err := repo.Create(context.Background(), entity.Document{
		"name": "Acme", "website": "https://acme.test",
	}, nil)
	require.NoError(t, err)

	var c models.Client
	roundTrip(t, doc, &c)
	assert.Equal(t, "Acme", c.Name)
	assert.True(t, c.IsActive)
	assert.NotEmpty(t, c.ID)
	assert.NotEmpty(t, c.CreatedAt)
}

func TestGalleryItemLayout(t *testing.T) {
	repo := newRepo(entity.GalleryItems())
	att := &entity.Attachment{FileName: "a.png", ContentType: "image/png", Data: []byte("x")}
	doc, err := repo.Create(context.Background(), entity.Document{
		"title": "party", "description": "d", "category": "Fests", "date": "2024-05-01",
	}, att)
	require.NoError(t, err)

	var g models.GalleryItem
	roundTrip(t, doc, &g)
	assert.Equal(t, "party", g.Title)
	assert.True(t, g.IsActive)
	require.NotNil(t, g.Image)
	assert.NotEmpty(t, g.Image.URL)
	assert.NotEmpty(t, g.Image.Key)
	assert.NotZero(t, g.Date)
}

func TestContactSubmissionLayout(t *testing.T) {
	repo := newRepo(entity.Contacts())
	doc, err := repo.Create(context.Background(), entity.Document{
		"name": "Jane", "email": "jane@example.com", "subject": "Hi",
	}, nil)
	require.NoError(t, err)

	var s models.ContactSubmission
	roundTrip(t, doc, &s)
	assert.Equal(t, "pending", s.Status)
	assert.Equal(t, "contact", s.Type)
	assert.Empty(t, s.Replies)
}

func TestTeamMemberLayout(t *testing.T) {
	repo := newRepo(entity.TeamMembers())
	doc, err := repo.Create(context.Background(), entity.Document{
		"name": "Dana", "role": "Engineer", "bio": "b", "linkedin": "", "email": "d@example.com",
	}, nil)
	require.NoError(t, err)

	var m models.TeamMember
	roundTrip(t, doc, &m)
	assert.Equal(t, "Dana", m.Name)
	assert.Nil(t, m.Image)
}

func TestPortfolioLayout(t *testing.T) {
	repo := newRepo(entity.Portfolios())
	doc, err := repo.Create(context.Background(), entity.Document{
		"title": "Site", "category": "web", "description": "d",
		"technologies": `["Go","AWS"]`,
	}, nil)
	require.NoError(t, err)

	var p models.Portfolio
	roundTrip(t, doc, &p)
	assert.Equal(t, []string{"Go", "AWS"}, p.Technologies)
	assert.Equal(t, entity.DefaultPortfolioColor, p.Color)
}

func TestServiceAndSentenceLayout(t *testing.T) {
	svc, err := newRepo(entity.Services()).Create(context.Background(), entity.Document{
		"title": "Consulting", "description": "d", "features": []any{"a"}, "icon": "gear",
	}, nil)
	require.NoError(t, err)
	var s models.Service
	roundTrip(t, svc, &s)
	assert.Equal(t, []string{"a"}, s.Features)

	sen, err := newRepo(entity.Sentences()).Create(context.Background(), entity.Document{
		"text": "ship it", "url": "/home", "userAgent": "ua",
	}, nil)
	require.NoError(t, err)
	var m models.Sentence
	roundTrip(t, sen, &m)
	assert.Equal(t, "ship it", m.Text)
	assert.NotEmpty(t, m.Timestamp)
}
