// Package storage provides the durable document slots backing the music
// library and play history. Each slot is a single JSON document under a
// fixed string key: there are no partial writes and no transactions
// across slots.
package storage

import (
	"context"
	"errors"
)

// Fixed logical keys for the persisted documents.
const (
	KeyLikedSongs  = "liked-songs"
	KeyPlaylists   = "playlists"
	KeyPlayHistory = "play-history"
)

// ErrNotFound is returned by Load when a slot holds no document.
var ErrNotFound = errors.New("storage: document not found")

// Store 持久化文档存储
// Load returns ErrNotFound for an empty slot; Save replaces the whole
// document (write-through, last writer wins).
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, doc []byte) error
	Close() error
}
