// Package blobstore abstracts binary asset storage. Records reference an
// asset by its public URL plus an opaque key used for deletion.
package blobstore

import "context"

// Store uploads and deletes binary assets. Implementations must be safe for
// concurrent use.
type Store interface {
	// Upload stores body under key and returns the stable retrieval URL.
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)

	// Delete removes the asset stored under key.
	Delete(ctx context.Context, key string) error
}
