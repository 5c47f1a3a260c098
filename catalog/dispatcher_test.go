package catalog

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("DeliversLatestResult", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			term := r.URL.Query().Get("term")
			fmt.Fprintf(w, `{"results": [{"trackId": 1, "trackName": %q}]}`, term)
		})
		d := NewDispatcher(client)
		defer d.Close()

		d.Search(ctx, "drake", 5)

		select {
		case res := <-d.Results():
			if len(res.Tracks) != 1 || res.Tracks[0].Name != "drake" {
				t.Errorf("unexpected result %+v", res)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for search result")
		}
	})

	t.Run("DropsStaleResponse", func(t *testing.T) {
		release := make(chan struct{})
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			term := r.URL.Query().Get("term")
			if term == "old" {
				// Hold the first response until the newer one is consumed.
				<-release
			}
			fmt.Fprintf(w, `{"results": [{"trackId": 1, "trackName": %q}]}`, term)
		})
		d := NewDispatcher(client)
		defer d.Close()

		oldToken := d.Search(ctx, "old", 5)
		newToken := d.Search(ctx, "new", 5)
		if newToken <= oldToken {
			t.Fatalf("tokens must increase: old=%d new=%d", oldToken, newToken)
		}

		select {
		case res := <-d.Results():
			if res.Term != "new" {
				t.Fatalf("expected the newer result first, got %q", res.Term)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for the newer result")
		}

		close(release)

		// The stale response must be discarded, not delivered late.
		select {
		case res := <-d.Results():
			t.Fatalf("stale result %q should have been dropped", res.Term)
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("NewerResultSupersedesUndelivered", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			term := r.URL.Query().Get("term")
			fmt.Fprintf(w, `{"results": [{"trackId": 1, "trackName": %q}]}`, term)
		})
		d := NewDispatcher(client)
		defer d.Close()

		// Nobody reads between the two searches; only the second result
		// may ever surface.
		first := d.Search(ctx, "first", 5)
		waitForDelivery(t, d, first)
		second := d.Search(ctx, "second", 5)
		waitForDelivery(t, d, second)

		select {
		case res := <-d.Results():
			if res.Term != "second" {
				t.Fatalf("expected the superseding result, got %q", res.Term)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for the superseding result")
		}
	})
}

// waitForDelivery blocks until the dispatcher has finished processing
// the search with the given token.
func waitForDelivery(t *testing.T, d *Dispatcher, token uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		delivered := false
		select {
		case r := <-d.results:
			// Peek without consuming: put it straight back.
			d.results <- r
			delivered = r.Token >= token
		default:
		}
		d.mu.Unlock()
		if delivered {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("search %d was never delivered", token)
}
