// Package player implements the playback engine: the play queue,
// transport controls, play history and the state machine that reconciles
// user commands with the audio output's asynchronous event feed.
package player

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"EchoFM/hub"
	"EchoFM/logger"
	"EchoFM/model"
	"EchoFM/storage"
)

// historyCap bounds the play history; the oldest entries are evicted.
const historyCap = 50

// Engine 播放引擎
// All commands and output events serialize on one mutex, so state
// transitions are totally ordered even though the output raises its
// events from another goroutine.
type Engine struct {
	mu     sync.Mutex
	out    Output
	docs   storage.Store
	events *hub.Hub

	current  *model.Track
	queue    []model.Track
	index    int
	playing  bool
	volume   float64
	progress float64
	duration float64

	// generation increments on every dispatched play. Output events
	// tagged with an older generation are stale and ignored.
	generation uint64

	history []model.PlayHistoryEntry
}

// New creates an engine bound to its audio output. A nil output is a
// wiring bug and panics. Play history is restored from durable storage;
// a missing or corrupt history document degrades to empty.
func New(ctx context.Context, out Output, docs storage.Store, events *hub.Hub, defaultVolume float64) *Engine {
	if out == nil {
		panic("player: engine requires an audio output")
	}

	e := &Engine{
		out:    out,
		docs:   docs,
		events: events,
		volume: clampVolume(defaultVolume),
	}
	e.out.SetVolume(e.volume)

	if doc, err := docs.Load(ctx, storage.KeyPlayHistory); err == nil {
		if err := json.Unmarshal(doc, &e.history); err != nil {
			logger.Warn("corrupt play history document, starting empty",
				logger.ErrorField(err))
			e.history = nil
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("failed to load play history", logger.ErrorField(err))
	}

	return e
}

// PlayTrack binds the track to the output and starts playback. The
// queue is left untouched: a direct play is a one-off outside the queue
// context, so CurrentIndex keeps referring to the queue, not to this
// track. Every call records a history entry, replays included.
func (e *Engine) PlayTrack(ctx context.Context, track model.Track) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playTrackLocked(ctx, track)
}

func (e *Engine) playTrackLocked(ctx context.Context, track model.Track) {
	e.generation++
	t := track
	e.current = &t
	e.progress = 0
	e.duration = 0
	e.playing = true

	e.out.Load(track.PreviewURL, e.generation)
	e.out.Play()

	e.history = append([]model.PlayHistoryEntry{{Track: track, PlayedAt: time.Now()}}, e.history...)
	if len(e.history) > historyCap {
		e.history = e.history[:historyCap]
	}
	e.persistHistory(ctx)

	logger.Debug("playing track",
		logger.String("trackId", track.ID),
		logger.String("name", track.Name),
		logger.Uint64("generation", e.generation))
	e.events.Publish(hub.EventPlaybackChanged)
}

// Pause pauses the output. Safe with no track bound.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.out.Pause()
	e.playing = false
	e.events.Publish(hub.EventPlaybackChanged)
}

// Resume resumes the output. Safe with no track bound.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.out.Play()
	e.playing = true
	e.events.Publish(hub.EventPlaybackChanged)
}

// Next advances to the next queue position, wrapping to the head at the
// end. No-op on an empty queue.
func (e *Engine) Next(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextLocked(ctx)
}

func (e *Engine) nextLocked(ctx context.Context) {
	if len(e.queue) == 0 {
		return
	}
	e.index = (e.index + 1) % len(e.queue)
	e.playTrackLocked(ctx, e.queue[e.index])
}

// Previous steps back one queue position, wrapping to the tail at the
// head. No-op on an empty queue.
func (e *Engine) Previous(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return
	}
	if e.index == 0 {
		e.index = len(e.queue) - 1
	} else {
		e.index--
	}
	e.playTrackLocked(ctx, e.queue[e.index])
}

// SetVolume clamps v into [0,1] and applies it to the output.
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = clampVolume(v)
	e.out.SetVolume(e.volume)
	e.events.Publish(hub.EventPlaybackChanged)
}

// SeekTo moves the output to t seconds and reflects the new position
// optimistically, without waiting for the output to confirm.
func (e *Engine) SeekTo(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.out.Seek(t)
	e.progress = t
	e.events.Publish(hub.EventPlaybackChanged)
}

// AddToQueue replaces the queue wholesale and plays the track at
// startIndex. Calling with no tracks is a caller error and is ignored
// with a warning; an out-of-range startIndex is clamped.
func (e *Engine) AddToQueue(ctx context.Context, tracks []model.Track, startIndex int) {
	if len(tracks) == 0 {
		logger.Warn("AddToQueue called with empty track list")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue = make([]model.Track, len(tracks))
	copy(e.queue, tracks)

	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(e.queue) {
		startIndex = len(e.queue) - 1
	}
	e.index = startIndex
	e.playTrackLocked(ctx, e.queue[e.index])
}

// Shuffle replaces the queue with a uniform random permutation of
// itself and plays the new head. No-op on an empty queue.
func (e *Engine) Shuffle(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return
	}

	rand.Shuffle(len(e.queue), func(i, j int) {
		e.queue[i], e.queue[j] = e.queue[j], e.queue[i]
	})
	e.index = 0
	e.playTrackLocked(ctx, e.queue[0])
}

// State returns a defensive snapshot of the playback state.
func (e *Engine) State() model.PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := model.PlaybackState{
		CurrentIndex: e.index,
		IsPlaying:    e.playing,
		Volume:       e.volume,
		Progress:     e.progress,
		Duration:     e.duration,
		Queue:        make([]model.Track, len(e.queue)),
	}
	copy(state.Queue, e.queue)
	if e.current != nil {
		t := *e.current
		state.CurrentTrack = &t
	}
	return state
}

// History returns a copy of the play history, most recent first.
func (e *Engine) History() []model.PlayHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.PlayHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// HandleProgress implements EventSink.
func (e *Engine) HandleProgress(token uint64, seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.generation {
		return
	}
	e.progress = seconds
	e.events.Publish(hub.EventPlaybackChanged)
}

// HandleMetadata implements EventSink.
func (e *Engine) HandleMetadata(token uint64, seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.generation {
		return
	}
	e.duration = seconds
	e.events.Publish(hub.EventPlaybackChanged)
}

// HandleEnded implements EventSink. A stale token means a newer play
// was dispatched while this event was in flight; advancing again would
// double-skip, so the event is dropped. With an empty queue the advance
// is a no-op and the transport flag deliberately keeps its last value.
func (e *Engine) HandleEnded(token uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if token != e.generation {
		logger.Debug("ignoring stale end-of-track event",
			logger.Uint64("token", token),
			logger.Uint64("generation", e.generation))
		return
	}
	e.nextLocked(context.Background())
}

// persistHistory writes the full history document; failures are logged
// and absorbed.
func (e *Engine) persistHistory(ctx context.Context) {
	doc, err := json.Marshal(e.history)
	if err != nil {
		logger.Error("failed to marshal play history", logger.ErrorField(err))
		return
	}
	if err := e.docs.Save(ctx, storage.KeyPlayHistory, doc); err != nil {
		logger.Error("failed to persist play history", logger.ErrorField(err))
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
