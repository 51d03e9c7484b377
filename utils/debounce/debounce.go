package debounce

import (
	"sync"
	"time"
)

// Debouncer delays a call until no newer call arrived for the configured
// delay. Only the most recent value is delivered.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	value T
	wg    sync.WaitGroup
}

// New creates a debouncer that invokes fn on its own goroutine.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v and restarts the countdown.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.value = v
	d.gen++
	gen := d.gen
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	defer d.wg.Done()

	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.gen++
	v := d.value
	d.mu.Unlock()

	d.fn(v)
}

// Flush delivers the pending value immediately, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer == nil || !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	d.wg.Done()
	d.gen++
	v := d.value
	d.mu.Unlock()

	d.fn(v)
}

// Cancel drops the pending value and waits for a call already running.
// It must not race with Trigger.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.gen++
	d.mu.Unlock()
	d.wg.Wait()
}
