package model

// Track represents a playable catalog item. Identity is ID; the value is
// immutable once constructed by the catalog client.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistName  string `json:"artistName"`
	AlbumName   string `json:"albumName"`
	ArtworkURL  string `json:"artworkUrl"`
	PreviewURL  string `json:"previewUrl"`
	Duration    int64  `json:"duration"` // 时长（毫秒）
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// Artist represents a catalog artist as returned by search.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Album represents a catalog album as returned by search.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistName  string `json:"artistName"`
	ArtworkURL  string `json:"artworkUrl"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	TrackCount  int    `json:"trackCount,omitempty"`
}
