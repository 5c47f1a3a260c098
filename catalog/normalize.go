package catalog

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"EchoFM/model"
)

// Some providers omit the duration on preview-only items; previews are
// 30 seconds.
const defaultDurationMillis = 30000

// normalizeTrack maps a raw provider result onto the core Track shape.
// A result without any provider identifier gets a random placeholder id
// so list rendering stays keyed; such ids are not stable across calls
// and must never be cached.
func normalizeTrack(r rawResult) model.Track {
	id := firstID(r.TrackID, r.CollectionID)
	if id == "" {
		id = uuid.NewString()
	}

	name := r.TrackName
	if name == "" {
		name = r.CollectionName
	}
	if name == "" {
		name = "Unknown"
	}

	album := r.CollectionName
	if album == "" {
		album = "Unknown Album"
	}

	duration := r.TrackTimeMillis
	if duration == 0 {
		duration = defaultDurationMillis
	}

	return model.Track{
		ID:          id,
		Name:        name,
		ArtistName:  artistOrUnknown(r.ArtistName),
		AlbumName:   album,
		ArtworkURL:  upgradeArtwork(r),
		PreviewURL:  r.PreviewURL,
		Duration:    duration,
		ReleaseDate: r.ReleaseDate,
	}
}

func normalizeArtist(r rawResult) model.Artist {
	id := firstID(r.ArtistID)
	if id == "" {
		id = uuid.NewString()
	}
	return model.Artist{
		ID:       id,
		Name:     artistOrUnknown(r.ArtistName),
		ImageURL: r.ArtworkURL100,
	}
}

func normalizeAlbum(r rawResult) model.Album {
	id := firstID(r.CollectionID)
	if id == "" {
		id = uuid.NewString()
	}

	name := r.CollectionName
	if name == "" {
		name = "Unknown Album"
	}

	return model.Album{
		ID:          id,
		Name:        name,
		ArtistName:  artistOrUnknown(r.ArtistName),
		ArtworkURL:  strings.Replace(r.ArtworkURL100, "100x100", "300x300", 1),
		ReleaseDate: r.ReleaseDate,
		TrackCount:  r.TrackCount,
	}
}

// firstID returns the first non-zero numeric id formatted as a string.
func firstID(ids ...int64) string {
	for _, id := range ids {
		if id != 0 {
			return strconv.FormatInt(id, 10)
		}
	}
	return ""
}

func artistOrUnknown(name string) string {
	if name == "" {
		return "Unknown Artist"
	}
	return name
}

// upgradeArtwork swaps the provider's 100x100 thumbnail for its 300x300
// variant, falling back to the 60x60 field when no thumbnail exists.
func upgradeArtwork(r rawResult) string {
	if r.ArtworkURL100 != "" {
		return strings.Replace(r.ArtworkURL100, "100x100", "300x300", 1)
	}
	return r.ArtworkURL60
}
