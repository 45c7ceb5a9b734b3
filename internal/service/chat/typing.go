package chat

import (
	"sync"
	"time"
)

type typingKey struct {
	from string
	to   string
}

type typingEntry struct {
	timer *time.Timer
}

// typingTracker remembers which senders are typing to whom and clears a
// "typing" that was not refreshed within the debounce window.
//
// emit runs under the tracker lock so transitions of a pair go out in
// order; it must not call back into the tracker.
type typingTracker struct {
	mu       sync.Mutex
	active   map[typingKey]*typingEntry
	debounce time.Duration
	emit     func(from, to string, isTyping bool)
}

func newTypingTracker(debounce time.Duration, emit func(from, to string, isTyping bool)) *typingTracker {
	return &typingTracker{
		active:   make(map[typingKey]*typingEntry),
		debounce: debounce,
		emit:     emit,
	}
}

// set records a transition and forwards it. Every "true" re-arms the timer.
func (t *typingTracker) set(from, to string, isTyping bool) {
	key := typingKey{from, to}

	t.mu.Lock()
	if old, ok := t.active[key]; ok {
		old.timer.Stop()
		delete(t.active, key)
	}
	if isTyping {
		e := &typingEntry{}
		e.timer = time.AfterFunc(t.debounce, func() { t.expire(key, e) })
		t.active[key] = e
	}
	t.emit(from, to, isTyping)
	t.mu.Unlock()
}

// stop clears from->to if it is active and reports whether it was.
func (t *typingTracker) stop(from, to string) bool {
	key := typingKey{from, to}
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.active[key]
	if ok {
		e.timer.Stop()
		delete(t.active, key)
		t.emit(from, to, false)
	}
	return ok
}

func (t *typingTracker) expire(key typingKey, e *typingEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.active[key]; !ok || cur != e {
		return // refreshed or cleared meanwhile
	}
	delete(t.active, key)
	t.emit(key.from, key.to, false)
}

// clearSender drops everything from is typing, e.g. when from goes offline.
func (t *typingTracker) clearSender(from string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.active {
		if key.from == from {
			e.timer.Stop()
			delete(t.active, key)
			t.emit(from, key.to, false)
		}
	}
}

func (t *typingTracker) isTyping(from, to string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[typingKey{from, to}]
	return ok
}

// close stops every pending timer without emitting.
func (t *typingTracker) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.active {
		e.timer.Stop()
		delete(t.active, key)
	}
}
