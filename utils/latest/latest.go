// Package latest keeps only the newest request per key. Starting a request
// cancels the context of the previous one for the same key, and a result
// may only be committed while its ticket is still the newest.
package latest

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer request for the same key started
// before this one finished.
var ErrSuperseded = errors.New("request superseded by a newer one")

type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// Guard tracks the newest request per key. The zero value is ready to use.
type Guard struct {
	mu    sync.Mutex
	next  uint64
	slots map[string]slot
}

// Ticket identifies one request.
type Ticket struct {
	g   *Guard
	key string
	gen uint64
}

// Begin registers a new request for key and returns a context that is
// cancelled once a newer request for key begins or the ticket is done.
func (g *Guard) Begin(ctx context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.slots == nil {
		g.slots = make(map[string]slot)
	}
	if prev, ok := g.slots[key]; ok {
		prev.cancel()
	}
	g.next++
	g.slots[key] = slot{gen: g.next, cancel: cancel}
	return ctx, &Ticket{g: g, key: key, gen: g.next}
}

// Current reports whether t is still the newest request for its key.
func (t *Ticket) Current() bool {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	return t.currentLocked()
}

func (t *Ticket) currentLocked() bool {
	s, ok := t.g.slots[t.key]
	return ok && s.gen == t.gen
}

// Commit runs apply while holding the guard, but only if t is current.
func (t *Ticket) Commit(apply func()) error {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	if !t.currentLocked() {
		return ErrSuperseded
	}
	if apply != nil {
		apply()
	}
	return nil
}

// Done releases the ticket's context.
func (t *Ticket) Done() {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	if s, ok := t.g.slots[t.key]; ok && s.gen == t.gen {
		s.cancel()
		delete(t.g.slots, t.key)
	}
}

// Cancel aborts whatever request is in flight for key.
func (g *Guard) Cancel(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.slots[key]; ok {
		s.cancel()
		delete(g.slots, key)
	}
}

// Do runs fn as the newest request for key. If another request for key
// begins before fn returns, the result is discarded and ErrSuperseded is
// returned.
func Do[T any](ctx context.Context, g *Guard, key string, fn func(context.Context) (T, error)) (T, error) {
	ctx, ticket := g.Begin(ctx, key)
	defer ticket.Done()

	v, err := fn(ctx)
	if !ticket.Current() {
		var zero T
		return zero, ErrSuperseded
	}
	return v, err
}
