// Package entity implements the generic CRUD engine shared by every record
// type. A Repository is parameterized by a Definition carrying the per-entity
// deltas: table name, validation, defaults, sort key, and the field owning an
// uploaded asset. Records are JSON documents; the engine never interprets
// fields the Definition does not name.
package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndenisov/showcase/internal/common"
	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/blobstore"
	"github.com/ndenisov/showcase/internal/server/docstore"
)

// Document is a decoded entity record.
type Document map[string]any

// String returns the document's string value under key, or "".
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns the document's boolean value under key, or false.
func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Attachment is an uploaded file accompanying a create or update request.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Definition carries the per-entity configuration of the CRUD engine.
type Definition struct {
	// Table is the document store table holding this entity type.
	Table string

	// SortField is the recency field List orders by (descending unless
	// ascending order is requested). Values may be numeric timestamps or
	// RFC 3339 strings.
	SortField string

	// Required lists fields that must be non-empty on create, checked
	// after Normalize has run.
	Required []string

	// AssetField names the field owning an uploaded asset ("" if none).
	AssetField string

	// RequireAsset makes create fail without an attachment.
	RequireAsset bool

	// KeyPrefix prefixes blob storage keys for this entity's assets.
	KeyPrefix string

	// Normalize cleans and validates a document in place (trimming,
	// structured parsing). It runs on create and on the merged record of
	// every update and may return a ValidationError.
	Normalize func(doc Document) error

	// Defaults populates missing fields at creation time.
	Defaults func(doc Document)
}

// Repository implements the CRUD contract for one entity type.
type Repository struct {
	def   Definition
	store docstore.Store
	blobs blobstore.Store
	log   logging.Logger

	now   func() time.Time
	newID func() string
}

func NewRepository(def Definition, store docstore.Store, blobs blobstore.Store, log logging.Logger) *Repository {
	return &Repository{
		def:   def,
		store: store,
		blobs: blobs,
		log:   log,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Definition returns the repository's entity configuration.
func (r *Repository) Definition() Definition { return r.def }

// Get returns the record stored under id, or common.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (Document, error) {
	raw, err := r.store.Get(ctx, r.def.Table, id)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// All returns every record of the type, in store order.
func (r *Repository) All(ctx context.Context) ([]Document, error) {
	raws, err := r.store.Scan(ctx, r.def.Table)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Create validates input, uploads the attachment (if any) and persists the
// record. The attachment is uploaded before the record is written: an upload
// failure leaves no orphan record.
func (r *Repository) Create(ctx context.Context, input Document, att *Attachment) (Document, error) {
	doc := clone(input)
	stripServerFields(doc)

	if r.def.Normalize != nil {
		if err := r.def.Normalize(doc); err != nil {
			return nil, err
		}
	}
	if err := r.checkRequired(doc); err != nil {
		return nil, err
	}
	if r.def.RequireAsset && att == nil {
		return nil, common.NewValidationError("%s is required", r.def.AssetField)
	}
	if r.def.Defaults != nil {
		r.def.Defaults(doc)
	}

	if att != nil && r.def.AssetField != "" {
		asset, err := r.uploadAsset(ctx, att)
		if err != nil {
			return nil, err
		}
		doc[r.def.AssetField] = asset
	}

	now := r.now().UTC().Format(time.RFC3339Nano)
	doc["id"] = r.newID()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	if err := r.put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Insert persists a server-built record, skipping validation, defaults and
// attachments. Used for internal records such as gallery category
// placeholders.
func (r *Repository) Insert(ctx context.Context, doc Document) (Document, error) {
	doc = clone(doc)
	now := r.now().UTC().Format(time.RFC3339Nano)
	doc["id"] = r.newID()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	if err := r.put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update merges patch into the stored record. Fields absent or empty in the
// patch keep their stored values; id and createdAt are immutable. When a new
// attachment arrives, it is uploaded first and the previous asset is released
// only after the record write succeeds, so a failed write never leaves the
// record pointing at a deleted asset.
func (r *Repository) Update(ctx context.Context, id string, patch Document, att *Attachment) (Document, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := merge(existing, patch)

	if r.def.Normalize != nil {
		if err := r.def.Normalize(doc); err != nil {
			return nil, err
		}
	}

	var oldKey string
	if att != nil && r.def.AssetField != "" {
		oldKey = assetKey(existing, r.def.AssetField)
		asset, err := r.uploadAsset(ctx, att)
		if err != nil {
			return nil, err
		}
		doc[r.def.AssetField] = asset
	}

	doc["updatedAt"] = r.now().UTC().Format(time.RFC3339Nano)

	if err := r.put(ctx, doc); err != nil {
		return nil, err
	}

	if oldKey != "" {
		r.releaseAsset(ctx, oldKey)
	}
	return doc, nil
}

// Delete removes the record and releases its asset. Asset release is
// best-effort: a blob store failure is logged and the record is still
// removed.
func (r *Repository) Delete(ctx context.Context, id string) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if key := assetKey(existing, r.def.AssetField); key != "" {
		r.releaseAsset(ctx, key)
	}

	return r.store.Delete(ctx, r.def.Table, id)
}

func (r *Repository) checkRequired(doc Document) error {
	for _, field := range r.def.Required {
		s, _ := doc[field].(string)
		if strings.TrimSpace(s) == "" {
			return common.NewValidationError("%s is required", field)
		}
	}
	return nil
}

func (r *Repository) uploadAsset(ctx context.Context, att *Attachment) (Document, error) {
	key := fmt.Sprintf("%s/%d-%s", r.def.KeyPrefix, r.now().UnixMilli(), sanitizeFileName(att.FileName))
	url, err := r.blobs.Upload(ctx, key, att.ContentType, att.Data)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", r.def.AssetField, err)
	}
	return Document{"url": url, "key": key}, nil
}

func (r *Repository) releaseAsset(ctx context.Context, key string) {
	if err := r.blobs.Delete(ctx, key); err != nil {
		r.log.Warn(ctx, "failed to delete asset", "table", r.def.Table, "key", key, "error", err.Error())
	}
}

func (r *Repository) put(ctx context.Context, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	id, _ := doc["id"].(string)
	return r.store.Put(ctx, r.def.Table, id, raw)
}

func decode(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return doc, nil
}

func clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func stripServerFields(doc Document) {
	delete(doc, "id")
	delete(doc, "createdAt")
	delete(doc, "updatedAt")
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
