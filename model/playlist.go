package model

import "time"

// Playlist 表示一个用户自建歌单
// Tracks is ordered and never contains two entries with the same track ID.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tracks      []Track   `json:"tracks"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ContainsTrack reports whether the playlist already holds a track with
// the given id.
func (p *Playlist) ContainsTrack(trackID string) bool {
	for _, t := range p.Tracks {
		if t.ID == trackID {
			return true
		}
	}
	return false
}
