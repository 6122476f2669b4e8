package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/ndenisov/showcase/internal/common"
)

func TestMemStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if _, err := s.Get(ctx, "clients", "c1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Put(ctx, "clients", "c1", []byte(`{"name":"acme"}`)); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	doc, err := s.Get(ctx, "clients", "c1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(doc) != `{"name":"acme"}` {
		t.Fatalf("unexpected doc: %s", doc)
	}

	if err := s.Delete(ctx, "clients", "c1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "clients", "c1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// deleting a missing id is not an error
	if err := s.Delete(ctx, "clients", "c1"); err != nil {
		t.Fatalf("Delete of missing id: %v", err)
	}
}

func TestMemStore_PutIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if err := s.PutIfAbsent(ctx, "users", "a@b.c", []byte(`{}`)); err != nil {
		t.Fatalf("first PutIfAbsent error: %v", err)
	}
	err := s.PutIfAbsent(ctx, "users", "a@b.c", []byte(`{}`))
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMemStore_Scan(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Put(ctx, "t", id, []byte(`{"id":"`+id+`"}`)); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	docs, err := s.Scan(ctx, "t")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}

	docs, err = s.Scan(ctx, "empty")
	if err != nil {
		t.Fatalf("Scan of empty table: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no docs, got %d", len(docs))
	}
}
