package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"EchoFM/logger"
	"EchoFM/model"
)

// Result carries one completed track search back to the consumer.
type Result struct {
	Token  uint64
	Term   string
	Tracks []model.Track
}

// Dispatcher runs track searches asynchronously and delivers only the
// newest one: every request is tagged with a monotonically increasing
// token, and a response whose token is no longer the latest issued is
// discarded. This keeps a slow response for an old query from
// overwriting the results of a newer one.
type Dispatcher struct {
	client *Client
	latest atomic.Uint64

	mu      sync.Mutex
	closed  bool
	results chan Result
}

// NewDispatcher creates a dispatcher around the given client.
func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{
		client:  client,
		results: make(chan Result, 1),
	}
}

// Search issues an asynchronous track search and returns its token.
func (d *Dispatcher) Search(ctx context.Context, term string, limit int) uint64 {
	token := d.latest.Add(1)
	go func() {
		tracks := d.client.SearchTracks(ctx, term, limit)
		d.deliver(Result{Token: token, Term: term, Tracks: tracks})
	}()
	return token
}

// Results returns the channel on which the newest search results arrive.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Close shuts the dispatcher down; in-flight searches are discarded.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.results)
	}
}

func (d *Dispatcher) deliver(r Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if r.Token != d.latest.Load() {
		logger.Debug("discarding stale search response",
			logger.String("term", r.Term),
			logger.Uint64("token", r.Token))
		return
	}

	// An undelivered older result is superseded by this one.
	select {
	case <-d.results:
	default:
	}
	d.results <- r
}
