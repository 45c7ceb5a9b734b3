package testutil

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oggyb/muzz-realtime/internal/realtime"
)

// FakeConn is an in-memory realtime.Conn that records every event.
type FakeConn struct {
	id       string
	identity string

	mu     sync.Mutex
	events []realtime.Event
	closed bool
	notify chan struct{}
}

func NewFakeConn(identity string) *FakeConn {
	return &FakeConn{id: uuid.NewString(), identity: identity, notify: make(chan struct{}, 1)}
}

func (c *FakeConn) ID() string       { return c.id }
func (c *FakeConn) Identity() string { return c.identity }

func (c *FakeConn) Send(ev realtime.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return realtime.ErrConnClosed
	}
	c.events = append(c.events, ev)
	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

// Close makes every later Send fail, as if the transport vanished.
func (c *FakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Events returns a copy of what was sent so far.
func (c *FakeConn) Events() []realtime.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]realtime.Event(nil), c.events...)
}

// OfType filters Events by type.
func (c *FakeConn) OfType(typ string) []realtime.Event {
	var out []realtime.Event
	for _, ev := range c.Events() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// WaitFor blocks until an event of typ shows up or timeout passes.
func (c *FakeConn) WaitFor(typ string, timeout time.Duration) (realtime.Event, bool) {
	deadline := time.After(timeout)
	for {
		if evs := c.OfType(typ); len(evs) > 0 {
			return evs[len(evs)-1], true
		}
		select {
		case <-c.notify:
		case <-deadline:
			return realtime.Event{}, false
		}
	}
}
