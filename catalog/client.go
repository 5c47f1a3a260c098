// Package catalog talks to the external music catalog provider and
// normalizes its search results into the core model. Transport and
// parse failures never escape this package: callers get an empty result
// and the failure is logged.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"EchoFM/config"
	"EchoFM/logger"
	"EchoFM/model"
)

// Entity 搜索实体类型
type Entity string

const (
	EntitySong   Entity = "song"
	EntityArtist Entity = "musicArtist"
	EntityAlbum  Entity = "album"
)

// Client 音乐目录API客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建新的API客户端
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.CatalogBaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.CatalogTimeout) * time.Second,
		},
	}
}

// SetBaseURL 设置API基础URL
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetTimeout 设置请求超时时间
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// searchResponse is the provider's wire format: a results array whose
// elements carry different fields depending on the entity searched.
type searchResponse struct {
	ResultCount int         `json:"resultCount"`
	Results     []rawResult `json:"results"`
}

type rawResult struct {
	TrackID         int64  `json:"trackId"`
	CollectionID    int64  `json:"collectionId"`
	ArtistID        int64  `json:"artistId"`
	TrackName       string `json:"trackName"`
	CollectionName  string `json:"collectionName"`
	ArtistName      string `json:"artistName"`
	ArtworkURL100   string `json:"artworkUrl100"`
	ArtworkURL60    string `json:"artworkUrl60"`
	PreviewURL      string `json:"previewUrl"`
	TrackTimeMillis int64  `json:"trackTimeMillis"`
	ReleaseDate     string `json:"releaseDate"`
	TrackCount      int    `json:"trackCount"`
}

// search performs one GET against the provider's search endpoint.
func (c *Client) search(ctx context.Context, term string, entity Entity, limit int) ([]rawResult, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("entity", string(entity))
	params.Set("limit", strconv.Itoa(limit))
	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API返回错误状态码: %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return result.Results, nil
}

// SearchTracks searches the catalog for tracks. On any failure it logs
// and returns an empty result (fire-and-forget degradation, no retry).
func (c *Client) SearchTracks(ctx context.Context, term string, limit int) []model.Track {
	results, err := c.search(ctx, term, EntitySong, limit)
	if err != nil {
		logger.Warn("catalog track search failed",
			logger.String("term", term),
			logger.ErrorField(err))
		return []model.Track{}
	}

	tracks := make([]model.Track, 0, len(results))
	for _, r := range results {
		tracks = append(tracks, normalizeTrack(r))
	}
	return tracks
}

// SearchArtists searches the catalog for artists.
func (c *Client) SearchArtists(ctx context.Context, term string, limit int) []model.Artist {
	results, err := c.search(ctx, term, EntityArtist, limit)
	if err != nil {
		logger.Warn("catalog artist search failed",
			logger.String("term", term),
			logger.ErrorField(err))
		return []model.Artist{}
	}

	artists := make([]model.Artist, 0, len(results))
	for _, r := range results {
		artists = append(artists, normalizeArtist(r))
	}
	return artists
}

// SearchAlbums searches the catalog for albums.
func (c *Client) SearchAlbums(ctx context.Context, term string, limit int) []model.Album {
	results, err := c.search(ctx, term, EntityAlbum, limit)
	if err != nil {
		logger.Warn("catalog album search failed",
			logger.String("term", term),
			logger.ErrorField(err))
		return []model.Album{}
	}

	albums := make([]model.Album, 0, len(results))
	for _, r := range results {
		albums = append(albums, normalizeAlbum(r))
	}
	return albums
}

// popularArtists seeds the trending view; the provider has no real
// trending endpoint.
var popularArtists = []string{"Taylor Swift", "The Weeknd", "Ed Sheeran", "Ariana Grande", "Drake"}

// TrendingTracks returns tracks by a randomly chosen popular artist.
func (c *Client) TrendingTracks(ctx context.Context) []model.Track {
	artist := popularArtists[rand.Intn(len(popularArtists))]
	return c.SearchTracks(ctx, artist, 20)
}

// ArtistTracks returns an artist's top tracks.
func (c *Client) ArtistTracks(ctx context.Context, artistName string, limit int) []model.Track {
	return c.SearchTracks(ctx, artistName, limit)
}

// AlbumTracks returns the tracks of an album, located by a combined
// album/artist search.
func (c *Client) AlbumTracks(ctx context.Context, albumName, artistName string) []model.Track {
	return c.SearchTracks(ctx, fmt.Sprintf("%s %s", albumName, artistName), 15)
}
