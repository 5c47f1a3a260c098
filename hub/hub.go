// Package hub delivers state-change notifications from the core to the
// presentation layer. Subscribers receive events on buffered channels;
// a saturated subscriber misses events rather than blocking the core
// (last-event-wins, consumers re-read the state they care about).
package hub

import (
	"sync"
	"time"
)

// EventType 事件类型
type EventType string

const (
	// EventPlaybackChanged 播放状态更新
	EventPlaybackChanged EventType = "playback_changed"
	// EventLibraryChanged 曲库（喜欢/歌单）更新
	EventLibraryChanged EventType = "library_changed"
)

// Event is a state-change notification. It carries no payload: the
// presentation layer re-reads the engine or library state on receipt.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
}

const subscriberBuffer = 16

// Hub 状态变更事件的进程内发布/订阅中心
// The zero value is not usable; a nil *Hub is valid and publishes
// nowhere, so components can run without a presentation layer attached.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its event channel.
func (h *Hub) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(ch <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		if sub == ch {
			delete(h.subscribers, sub)
			close(sub)
			return
		}
	}
}

// Publish broadcasts an event to all subscribers without blocking.
func (h *Hub) Publish(eventType EventType) {
	if h == nil {
		return
	}
	event := Event{Type: eventType, Timestamp: time.Now().UnixMilli()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		select {
		case sub <- event:
		default:
			// 订阅者处理过慢，丢弃本次事件
		}
	}
}
