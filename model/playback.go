package model

import "time"

// PlayHistoryEntry 播放历史中的一条记录
type PlayHistoryEntry struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"playedAt"`
}

// PlaybackState is the client-facing snapshot of the playback engine.
// Queue is a defensive copy; mutating it has no effect on the engine.
type PlaybackState struct {
	CurrentTrack *Track  `json:"currentTrack"`
	Queue        []Track `json:"queue"`
	CurrentIndex int     `json:"currentIndex"`
	IsPlaying    bool    `json:"isPlaying"`
	Volume       float64 `json:"volume"`
	Progress     float64 `json:"progress"` // 秒
	Duration     float64 `json:"duration"` // 秒
}
