// Package realtime defines the events exchanged over live connections and
// the connection handle the rest of the core pushes them through.
package realtime

import (
	"encoding/json"
	"errors"
)

// Event types. Inbound types come from clients, the rest are server pushes.
const (
	TypeLike    = "like"
	TypeUnlike  = "unlike"
	TypeMessage = "message"
	TypeTyping  = "typing"

	TypeLikeResult       = "like-result"
	TypeUnlikeResult     = "unlike-result"
	TypeMatchCreated     = "match-created"
	TypeMatchRetracted   = "match-retracted"
	TypeMessageAck       = "message-ack"
	TypePresence         = "presence"
	TypePresenceSnapshot = "presence-snapshot"
	TypeError            = "error"
)

// ErrConnClosed is returned by Conn.Send once the connection is gone.
var ErrConnClosed = errors.New("connection closed")

// ErrSlowConsumer is returned by Conn.Send when the outbound queue is full.
var ErrSlowConsumer = errors.New("connection send queue full")

// Event is the JSON envelope on the wire: {"type": ..., "payload": {...}}.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals payload into an envelope.
func NewEvent(typ string, payload any) (Event, error) {
	if payload == nil {
		return Event{Type: typ}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: typ, Payload: b}, nil
}

// MustEvent is NewEvent for payloads that always marshal (the structs below).
func MustEvent(typ string, payload any) Event {
	ev, err := NewEvent(typ, payload)
	if err != nil {
		panic(err)
	}
	return ev
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}

// Conn is one live transport session of an identity.
// Send must not block on the network: it queues or fails.
type Conn interface {
	ID() string
	Identity() string
	Send(Event) error
}
