package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/roach88/touchbase/internal/docstore"
)

type docKey struct {
	collection string
	id         string
}

// hub fans committed changes out to subscribers.
// Notifications are coalescing signals: a subscriber always re-reads the
// latest committed document, so a slow reader skips intermediate versions
// instead of blocking writers.
type hub struct {
	mu   sync.RWMutex
	subs map[docKey]map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[docKey]map[chan struct{}]struct{})}
}

func (h *hub) add(k docKey) chan struct{} {
	sig := make(chan struct{}, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[k] == nil {
		h.subs[k] = make(map[chan struct{}]struct{})
	}
	h.subs[k][sig] = struct{}{}
	return sig
}

func (h *hub) remove(k docKey, sig chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[k], sig)
	if len(h.subs[k]) == 0 {
		delete(h.subs, k)
	}
}

// publish signals every subscriber of the changed documents.
// Never blocks: a pending signal already covers this change.
func (h *hub) publish(docs []docstore.Document) {
	if len(docs) == 0 {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, doc := range docs {
		for sig := range h.subs[docKey{doc.Collection, doc.ID}] {
			select {
			case sig <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribe streams a document's current state and every later committed
// version until ctx is done, then closes the channel.
func (s *Store) Subscribe(ctx context.Context, collection, id string) (<-chan docstore.Document, error) {
	k := docKey{collection, id}
	sig := s.hub.add(k)
	out := make(chan docstore.Document, 1)

	var tick <-chan time.Time
	if s.poll > 0 {
		ticker := time.NewTicker(s.poll)
		tick = ticker.C
		context.AfterFunc(ctx, ticker.Stop)
	}

	go func() {
		defer close(out)
		defer s.hub.remove(k, sig)

		var last int64
		deliver := func() bool {
			doc, err := s.Get(ctx, collection, id)
			if errors.Is(err, docstore.ErrNotFound) {
				return true
			}
			if err != nil {
				return false
			}
			if doc.Version <= last {
				return true
			}
			select {
			case out <- doc:
				last = doc.Version
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
			case <-tick:
			}
			if !deliver() {
				return
			}
		}
	}()

	return out, nil
}
