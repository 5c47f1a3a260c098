package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"EchoFM/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.Config{
		CatalogBaseURL: server.URL,
		CatalogTimeout: 5,
	})
	return client
}

const trackJSON = `{
	"resultCount": 2,
	"results": [
		{
			"trackId": 123,
			"trackName": "Anti-Hero",
			"artistName": "Taylor Swift",
			"collectionName": "Midnights",
			"artworkUrl100": "https://img.example.com/100x100bb.jpg",
			"previewUrl": "https://audio.example.com/preview.m4a",
			"trackTimeMillis": 200690,
			"releaseDate": "2022-10-21T07:00:00Z"
		},
		{
			"collectionId": 456,
			"collectionName": "Some Collection",
			"artworkUrl60": "https://img.example.com/60x60bb.jpg"
		}
	]
}`

func TestSearchTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("Normalization", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(trackJSON))
		})

		tracks := client.SearchTracks(ctx, "anti-hero", 20)
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}

		full := tracks[0]
		if full.ID != "123" {
			t.Errorf("expected id 123, got %s", full.ID)
		}
		if full.ArtworkURL != "https://img.example.com/300x300bb.jpg" {
			t.Errorf("expected upsized artwork, got %s", full.ArtworkURL)
		}
		if full.Duration != 200690 {
			t.Errorf("expected duration 200690, got %d", full.Duration)
		}

		sparse := tracks[1]
		if sparse.ID != "456" {
			t.Errorf("expected collection id fallback, got %s", sparse.ID)
		}
		if sparse.Name != "Some Collection" {
			t.Errorf("expected collection name fallback, got %s", sparse.Name)
		}
		if sparse.ArtistName != "Unknown Artist" {
			t.Errorf("expected unknown artist fallback, got %s", sparse.ArtistName)
		}
		if sparse.ArtworkURL != "https://img.example.com/60x60bb.jpg" {
			t.Errorf("expected low-res artwork fallback, got %s", sparse.ArtworkURL)
		}
		if sparse.Duration != 30000 {
			t.Errorf("expected default 30000ms duration, got %d", sparse.Duration)
		}
	})

	t.Run("PlaceholderIDWhenAllIDsMissing", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": [{"trackName": "A"}, {"trackName": "B"}]}`))
		})

		tracks := client.SearchTracks(ctx, "x", 2)
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].ID == "" || tracks[1].ID == "" {
			t.Error("placeholder ids must not be empty")
		}
		if tracks[0].ID == tracks[1].ID {
			t.Error("placeholder ids must be distinct")
		}
	})

	t.Run("QueryParameters", func(t *testing.T) {
		var got string
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.URL.RawQuery
			w.Write([]byte(`{"results": []}`))
		})

		client.SearchTracks(ctx, "sign of the times", 7)

		want := "entity=song&limit=7&term=sign+of+the+times"
		if got != want {
			t.Errorf("expected query %q, got %q", want, got)
		}
	})

	t.Run("TransportFailureReturnsEmpty", func(t *testing.T) {
		client := NewClient(&config.Config{
			CatalogBaseURL: "http://127.0.0.1:1",
			CatalogTimeout: 1,
		})
		client.SetTimeout(200 * time.Millisecond)

		if tracks := client.SearchTracks(ctx, "x", 5); len(tracks) != 0 {
			t.Errorf("expected empty result on transport failure, got %d", len(tracks))
		}
	})

	t.Run("ParseFailureReturnsEmpty", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		})

		if tracks := client.SearchTracks(ctx, "x", 5); len(tracks) != 0 {
			t.Errorf("expected empty result on parse failure, got %d", len(tracks))
		}
	})

	t.Run("ServerErrorReturnsEmpty", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		if tracks := client.SearchTracks(ctx, "x", 5); len(tracks) != 0 {
			t.Errorf("expected empty result on server error, got %d", len(tracks))
		}
	})
}

func TestSearchArtists(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("entity"); got != "musicArtist" {
			t.Errorf("expected entity musicArtist, got %s", got)
		}
		w.Write([]byte(`{"results": [{"artistId": 789, "artistName": "Harry Styles", "artworkUrl100": "https://img.example.com/100x100bb.jpg"}]}`))
	})

	artists := client.SearchArtists(context.Background(), "harry", 10)
	if len(artists) != 1 {
		t.Fatalf("expected 1 artist, got %d", len(artists))
	}
	if artists[0].ID != "789" || artists[0].Name != "Harry Styles" {
		t.Errorf("unexpected artist %+v", artists[0])
	}
}

func TestSearchAlbums(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("entity"); got != "album" {
			t.Errorf("expected entity album, got %s", got)
		}
		w.Write([]byte(`{"results": [{"collectionId": 321, "collectionName": "Fine Line", "artistName": "Harry Styles", "artworkUrl100": "https://img.example.com/100x100bb.jpg", "trackCount": 12}]}`))
	})

	albums := client.SearchAlbums(context.Background(), "fine line", 10)
	if len(albums) != 1 {
		t.Fatalf("expected 1 album, got %d", len(albums))
	}
	album := albums[0]
	if album.ID != "321" || album.TrackCount != 12 {
		t.Errorf("unexpected album %+v", album)
	}
	if album.ArtworkURL != "https://img.example.com/300x300bb.jpg" {
		t.Errorf("expected upsized artwork, got %s", album.ArtworkURL)
	}
}

func TestAlbumTracks(t *testing.T) {
	var term string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		term = r.URL.Query().Get("term")
		w.Write([]byte(`{"results": []}`))
	})

	client.AlbumTracks(context.Background(), "Fine Line", "Harry Styles")
	if term != "Fine Line Harry Styles" {
		t.Errorf("expected combined album/artist term, got %q", term)
	}
}
