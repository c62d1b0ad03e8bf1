package button

import (
	"sync"
	"time"
)

// DebouncedButton turns noisy edge events from a mechanical switch into
// single presses.
type DebouncedButton struct {
	presses  chan<- struct{}
	debounce time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastFired time.Time
}

// NewDebouncedButton returns a button that signals on presses at most once
// per debounce window.
func NewDebouncedButton(presses chan<- struct{}, debounce time.Duration) *DebouncedButton {
	return &DebouncedButton{
		presses:  presses,
		debounce: debounce,
		now:      time.Now,
	}
}

// Pressed registers an edge. It fires when no press has fired within the
// debounce window and reports whether it did. Suppressed edges do not
// extend the window. If a fired press is still waiting to be consumed the
// new one is merged into it.
func (b *DebouncedButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !b.lastFired.IsZero() && now.Sub(b.lastFired) <= b.debounce {
		return false
	}
	b.lastFired = now

	select {
	case b.presses <- struct{}{}:
	default:
	}
	return true
}
