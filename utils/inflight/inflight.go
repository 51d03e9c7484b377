// Package inflight rejects a second submission of an action while the first
// one is still running.
package inflight

import (
	"errors"
	"sync"
)

// ErrBusy is returned when the same action is already in flight.
var ErrBusy = errors.New("action already in progress")

// Guard is a set of busy keys. The zero value is ready to use.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// Acquire marks key busy. The returned release func must be called once the
// action finishes; it is safe to call more than once.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy == nil {
		g.busy = make(map[string]struct{})
	}
	if _, ok := g.busy[key]; ok {
		return nil, ErrBusy
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether key is in flight.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[key]
	return ok
}

// Run executes fn unless key is already in flight.
func (g *Guard) Run(key string, fn func() error) error {
	release, err := g.Acquire(key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
