// Package docstore abstracts the key-value document database used for all
// entity records. Documents are opaque JSON objects addressed by a table
// name and a string key; the only query mechanism is a full-table scan.
package docstore

import "context"

// Store is the contract every backend implements. Implementations must be
// safe for concurrent use. Missing keys are reported as common.ErrNotFound,
// PutIfAbsent collisions as common.ErrConflict.
type Store interface {
	// Get returns the JSON document stored under id.
	Get(ctx context.Context, table, id string) ([]byte, error)

	// Put stores doc under id, overwriting any existing document.
	Put(ctx context.Context, table, id string, doc []byte) error

	// PutIfAbsent stores doc under id only if no document exists there.
	// The write is atomic at the store level.
	PutIfAbsent(ctx context.Context, table, id string, doc []byte) error

	// Delete removes the document stored under id. Deleting a missing id
	// is not an error.
	Delete(ctx context.Context, table, id string) error

	// Scan returns every document in the table, in no particular order.
	Scan(ctx context.Context, table string) ([][]byte, error)

	// Ping verifies connectivity to the backend.
	Ping(ctx context.Context) error
}
