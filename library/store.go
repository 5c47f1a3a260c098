// Package library owns the user's durable music library: liked songs
// and user-authored playlists. Both collections live in memory and are
// written through to durable storage on every mutation, each as its own
// independent JSON document.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"EchoFM/hub"
	"EchoFM/logger"
	"EchoFM/model"
	"EchoFM/storage"
)

// ErrEmptyName is returned when creating a playlist with a blank name.
var ErrEmptyName = errors.New("library: playlist name must not be empty")

// Store 用户曲库（喜欢的歌曲 + 歌单）
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	liked     []model.Track    // 最近喜欢的排在最前
	playlists []model.Playlist // 创建顺序
	docs      storage.Store
	events    *hub.Hub
}

// Open loads both library documents from durable storage. A missing or
// corrupt document degrades to an empty collection; startup never fails
// on bad library data.
func Open(ctx context.Context, docs storage.Store, events *hub.Hub) *Store {
	s := &Store{docs: docs, events: events}

	if doc, err := docs.Load(ctx, storage.KeyLikedSongs); err == nil {
		if err := json.Unmarshal(doc, &s.liked); err != nil {
			logger.Warn("corrupt liked songs document, starting empty",
				logger.ErrorField(err))
			s.liked = nil
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("failed to load liked songs", logger.ErrorField(err))
	}

	if doc, err := docs.Load(ctx, storage.KeyPlaylists); err == nil {
		if err := json.Unmarshal(doc, &s.playlists); err != nil {
			logger.Warn("corrupt playlists document, starting empty",
				logger.ErrorField(err))
			s.playlists = nil
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("failed to load playlists", logger.ErrorField(err))
	}

	logger.Info("library loaded",
		logger.Int("likedSongs", len(s.liked)),
		logger.Int("playlists", len(s.playlists)))
	return s
}

// AddLikedSong prepends the track to the liked set. Adding an already
// liked track is a no-op.
func (s *Store) AddLikedSong(ctx context.Context, track model.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.liked {
		if t.ID == track.ID {
			return
		}
	}
	s.liked = append([]model.Track{track}, s.liked...)
	s.persistLiked(ctx)
	s.events.Publish(hub.EventLibraryChanged)
}

// RemoveLikedSong removes the track with the given id; removing an
// absent track is a no-op.
func (s *Store) RemoveLikedSong(ctx context.Context, trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.liked {
		if t.ID == trackID {
			s.liked = append(s.liked[:i], s.liked[i+1:]...)
			s.persistLiked(ctx)
			s.events.Publish(hub.EventLibraryChanged)
			return
		}
	}
}

// IsLiked reports whether a track with the given id is liked.
func (s *Store) IsLiked(trackID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.liked {
		if t.ID == trackID {
			return true
		}
	}
	return false
}

// LikedSongs returns a copy of the liked set, most recently liked first.
func (s *Store) LikedSongs() []model.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Track, len(s.liked))
	copy(out, s.liked)
	return out
}

// CreatePlaylist allocates a new empty playlist and appends it to the
// collection. The created value is returned so the caller can navigate
// straight to it.
func (s *Store) CreatePlaylist(ctx context.Context, name, description string) (model.Playlist, error) {
	if name == "" {
		return model.Playlist{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	playlist := model.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Tracks:      []model.Track{},
		CreatedAt:   time.Now(),
	}
	s.playlists = append(s.playlists, playlist)
	s.persistPlaylists(ctx)
	s.events.Publish(hub.EventLibraryChanged)

	logger.Info("playlist created",
		logger.String("playlistId", playlist.ID),
		logger.String("name", name))
	return playlist, nil
}

// DeletePlaylist removes the playlist with the given id; deleting an
// unknown id is a no-op.
func (s *Store) DeletePlaylist(ctx context.Context, playlistID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.playlists {
		if p.ID == playlistID {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			s.persistPlaylists(ctx)
			s.events.Publish(hub.EventLibraryChanged)
			return
		}
	}
}

// Playlist looks up a playlist by id.
func (s *Store) Playlist(playlistID string) (model.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.playlists {
		if p.ID == playlistID {
			return copyPlaylist(p), true
		}
	}
	return model.Playlist{}, false
}

// Playlists returns a copy of the playlist collection in creation order.
func (s *Store) Playlists() []model.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		out = append(out, copyPlaylist(p))
	}
	return out
}

// AddTrackToPlaylist appends the track to the playlist. Unknown
// playlist ids and duplicate track ids are no-ops.
func (s *Store) AddTrackToPlaylist(ctx context.Context, playlistID string, track model.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID != playlistID {
			continue
		}
		if s.playlists[i].ContainsTrack(track.ID) {
			return
		}
		s.playlists[i].Tracks = append(s.playlists[i].Tracks, track)
		s.persistPlaylists(ctx)
		s.events.Publish(hub.EventLibraryChanged)
		return
	}
}

// RemoveTrackFromPlaylist removes the track from the playlist. Unknown
// playlist ids and absent tracks are no-ops.
func (s *Store) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID != playlistID {
			continue
		}
		for j, t := range s.playlists[i].Tracks {
			if t.ID == trackID {
				s.playlists[i].Tracks = append(s.playlists[i].Tracks[:j], s.playlists[i].Tracks[j+1:]...)
				s.persistPlaylists(ctx)
				s.events.Publish(hub.EventLibraryChanged)
				return
			}
		}
		return
	}
}

// persistLiked writes the full liked-songs document. Storage failures
// are logged, not propagated: the in-memory mutation already happened
// and mutators are expected to succeed with valid arguments.
func (s *Store) persistLiked(ctx context.Context) {
	doc, err := json.Marshal(s.liked)
	if err != nil {
		logger.Error("failed to marshal liked songs", logger.ErrorField(err))
		return
	}
	if err := s.docs.Save(ctx, storage.KeyLikedSongs, doc); err != nil {
		logger.Error("failed to persist liked songs", logger.ErrorField(err))
	}
}

// persistPlaylists writes the full playlists document.
func (s *Store) persistPlaylists(ctx context.Context) {
	doc, err := json.Marshal(s.playlists)
	if err != nil {
		logger.Error("failed to marshal playlists", logger.ErrorField(err))
		return
	}
	if err := s.docs.Save(ctx, storage.KeyPlaylists, doc); err != nil {
		logger.Error("failed to persist playlists", logger.ErrorField(err))
	}
}

func copyPlaylist(p model.Playlist) model.Playlist {
	out := p
	out.Tracks = make([]model.Track, len(p.Tracks))
	copy(out.Tracks, p.Tracks)
	return out
}
