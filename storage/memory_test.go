package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadMissingSlot", func(t *testing.T) {
		s := NewMemoryStore()
		if _, err := s.Load(ctx, KeyLikedSongs); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SaveThenLoad", func(t *testing.T) {
		s := NewMemoryStore()
		if err := s.Save(ctx, KeyPlaylists, []byte(`[]`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		doc, err := s.Load(ctx, KeyPlaylists)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(doc) != "[]" {
			t.Errorf("expected [], got %s", doc)
		}
	})

	t.Run("LoadReturnsACopy", func(t *testing.T) {
		s := NewMemoryStore()
		if err := s.Save(ctx, KeyPlaylists, []byte(`[]`)); err != nil {
			t.Fatal(err)
		}

		doc, _ := s.Load(ctx, KeyPlaylists)
		doc[0] = 'X'

		again, _ := s.Load(ctx, KeyPlaylists)
		if string(again) != "[]" {
			t.Error("mutating a loaded document must not affect the store")
		}
	})
}
