// Package task runs the long-lived goroutines that keep the dashboard's
// data fresh: container discovery, focused-container detail, log
// streaming, and the daemon event feed. Cross-task state is limited to the
// focus register and the refresh signal; everything else moves over
// bounded channels.
package task

import (
	"context"
	"sync"
)

// FocusRegister is the single "which container is the operator looking at"
// cell. One writer (the UI), many readers (detail and log tasks). Each reader
// keeps its own last-observed version so it can tell a focus move apart
// from a timer wakeup.
type FocusRegister struct {
	mu      sync.Mutex
	id      string
	set     bool
	version uint64
	changed chan struct{}
}

// NewFocusRegister creates an empty register (no container focused).
func NewFocusRegister() *FocusRegister {
	return &FocusRegister{changed: make(chan struct{})}
}

// Set focuses a container. Setting the already-focused id is a no-op and
// does not wake waiters.
func (f *FocusRegister) Set(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set && f.id == id {
		return
	}
	f.id = id
	f.set = true
	f.bump()
}

// Clear drops the focus.
func (f *FocusRegister) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.set {
		return
	}
	f.id = ""
	f.set = false
	f.bump()
}

// bump advances the version and broadcasts by closing the change channel.
// Callers hold f.mu.
func (f *FocusRegister) bump() {
	f.version++
	close(f.changed)
	f.changed = make(chan struct{})
}

// Get returns the current focus and its version.
func (f *FocusRegister) Get() (id string, ok bool, version uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id, f.set, f.version
}

// Changed reports whether the focus has moved since the given version.
func (f *FocusRegister) Changed(since uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version != since
}

// Wait blocks until the focus version differs from since, then returns the
// current focus. Returns ctx.Err() on cancellation.
func (f *FocusRegister) Wait(ctx context.Context, since uint64) (id string, ok bool, version uint64, err error) {
	for {
		f.mu.Lock()
		if f.version != since {
			id, ok, version = f.id, f.set, f.version
			f.mu.Unlock()
			return id, ok, version, nil
		}
		ch := f.changed
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", false, since, ctx.Err()
		case <-ch:
		}
	}
}
