package gateway

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/oggyb/muzz-realtime/internal/realtime"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// client is one websocket session. All writes go through the send queue
// and the write pump, so each connection sees events in queue order.
type client struct {
	id           string
	identity     string
	ws           *websocket.Conn
	send         chan realtime.Event
	writeTimeout time.Duration
	log          *slog.Logger

	mu        sync.Mutex
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(ws *websocket.Conn, identity string, buffer int, writeTimeout time.Duration, log *slog.Logger) *client {
	id := uuid.NewString()
	return &client{
		id:           id,
		identity:     identity,
		ws:           ws,
		send:         make(chan realtime.Event, buffer),
		writeTimeout: writeTimeout,
		log:          log.With("conn", id, "identity", identity),
		done:         make(chan struct{}),
	}
}

func (c *client) ID() string       { return c.id }
func (c *client) Identity() string { return c.identity }

// Send queues ev without blocking. A full queue means the peer stopped
// reading; the connection is dropped rather than stalling the sender.
func (c *client) Send(ev realtime.Event) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return realtime.ErrConnClosed
	}
	select {
	case c.send <- ev:
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
	}

	c.log.Warn("send queue full, dropping connection")
	c.closeWith(websocket.ClosePolicyViolation, "slow consumer")
	return realtime.ErrSlowConsumer
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteJSON(ev); err != nil {
				c.log.Debug("write failed", "err", err)
				c.shutdown()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}
		case <-c.done:
			return
		}
	}
}

// shutdown stops accepting events and ends the write pump. Queued events
// are dropped. The send channel is never closed, so a racing Send cannot
// panic.
func (c *client) shutdown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
}

// closeWith sends a close frame and tears the session down; the read loop
// then fails and runs the normal unregister path.
func (c *client) closeWith(code int, reason string) {
	c.shutdown()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second))
	_ = c.ws.Close()
}
