// Package chat authorizes, persists and routes private messages and typing
// signals between matched identities.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/realtime"
	"github.com/oggyb/muzz-realtime/internal/utils/keyed"
)

// Matcher answers whether two identities currently share a match.
type Matcher interface {
	IsMatched(ctx context.Context, a, b string) (bool, error)
}

// MessageStore is where messages live.
type MessageStore interface {
	CreateMessage(ctx context.Context, m *db.Message) error
	MarkDelivered(ctx context.Context, id uint64) error
	ListConversation(ctx context.Context, a, b string, paginationToken *string, limit int) ([]db.Message, *string, error)
}

// Presence resolves an identity to its live connections.
type Presence interface {
	ConnectionsOf(identity string) []realtime.Conn
}

type Config struct {
	SendTimeout     time.Duration
	TypingDebounce  time.Duration
	HistoryPageSize int
}

func (c Config) withDefaults() Config {
	if c.SendTimeout <= 0 {
		c.SendTimeout = 3 * time.Second
	}
	if c.TypingDebounce <= 0 {
		c.TypingDebounce = 2 * time.Second
	}
	if c.HistoryPageSize <= 0 {
		c.HistoryPageSize = 50
	}
	return c
}

// Message is a persisted chat message.
type Message struct {
	ID        uint64
	Sender    string
	Recipient string
	Body      string
	CreatedAt time.Time
	Delivered bool
}

func fromDB(m db.Message) Message {
	return Message{
		ID:        m.ID,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		Delivered: m.Delivered,
	}
}

// Payload renders m for the wire. ref is only set on acks.
func (m Message) Payload(ref string) realtime.Message {
	return realtime.Message{
		ID:        m.ID,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Body:      m.Body,
		Timestamp: m.CreatedAt.UnixMilli(),
		Delivered: m.Delivered,
		Ref:       ref,
	}
}

// SendRequest is one outbound message. A zero Timestamp means now.
type SendRequest struct {
	Sender    string
	Recipient string
	Body      string
	Ref       string
	Timestamp time.Time
}

// HistoryPage is one page of a conversation, newest first.
type HistoryPage struct {
	Messages []Message
	Next     *string
}

type Router struct {
	matcher  Matcher
	store    MessageStore
	presence Presence
	log      *slog.Logger
	cfg      Config

	pairs  *keyed.Mutex
	typing *typingTracker
}

func NewRouter(matcher Matcher, store MessageStore, presence Presence, log *slog.Logger, cfg Config) *Router {
	r := &Router{
		matcher:  matcher,
		store:    store,
		presence: presence,
		log:      log,
		cfg:      cfg.withDefaults(),
		pairs:    keyed.New(),
	}
	r.typing = newTypingTracker(r.cfg.TypingDebounce, r.pushTyping)
	return r
}

// Send authorizes, persists and delivers one message.
//
// Behavior:
//   - ErrNotMatched unless sender and recipient share a match.
//   - ErrEmptyMessage for a blank body.
//   - The message is stored with delivered=false before anyone sees it;
//     a store that does not answer within SendTimeout yields ErrTimeout
//     and nothing is delivered.
//   - Delivered flips to true once at least one recipient connection took
//     the message and the flag is stored. The sender's connections receive
//     a message-ack carrying the stored flag.
//   - Messages of one sender->recipient pair reach each connection in send
//     order.
func (r *Router) Send(ctx context.Context, req SendRequest) (Message, error) {
	matched, err := r.matcher.IsMatched(ctx, req.Sender, req.Recipient)
	if err != nil {
		return Message{}, err
	}
	if !matched {
		return Message{}, svcErr.ErrNotMatched
	}
	if strings.TrimSpace(req.Body) == "" {
		return Message{}, svcErr.ErrEmptyMessage
	}

	unlock := r.pairs.Lock(req.Sender + "\x00" + req.Recipient)
	defer unlock()

	at := req.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	row := db.Message{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Body:      req.Body,
		CreatedAt: at.UTC().Truncate(time.Millisecond),
	}

	persistCtx, cancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
	err = r.store.CreateMessage(persistCtx, &row)
	cancel()
	if err != nil {
		if persistCtx.Err() == context.DeadlineExceeded {
			err = svcErr.ErrTimeout
		}
		r.log.Warn("message persist failed", "sender", req.Sender, "recipient", req.Recipient, "err", err)
		return Message{}, svcErr.Storage(err)
	}
	msg := fromDB(row)

	// sending a message ends the sender's typing indicator
	r.typing.stop(req.Sender, req.Recipient)

	handed := 0
	// whoever receives the push holds a delivered copy
	pushed := msg.Payload("")
	pushed.Delivered = true
	ev := realtime.MustEvent(realtime.TypeMessage, pushed)
	for _, c := range r.presence.ConnectionsOf(req.Recipient) {
		if err := c.Send(ev); err != nil {
			r.log.Debug("message push failed", "conn", c.ID(), "err", err)
			continue
		}
		handed++
	}

	if handed > 0 {
		msg.Delivered = r.markDelivered(ctx, msg.ID)
	}

	ack := realtime.MustEvent(realtime.TypeMessageAck, msg.Payload(req.Ref))
	for _, c := range r.presence.ConnectionsOf(req.Sender) {
		_ = c.Send(ack)
	}

	r.log.Debug("message routed", "id", msg.ID, "sender", msg.Sender, "recipient", msg.Recipient, "delivered", msg.Delivered)
	return msg, nil
}

// markDelivered stores the delivered flag, retrying once. It reports what
// the store now holds, so the ack never claims more than History returns.
func (r *Router) markDelivered(ctx context.Context, id uint64) bool {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		markCtx, cancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
		err = r.store.MarkDelivered(markCtx, id)
		cancel()
		if err == nil {
			return true
		}
	}
	// the recipient already holds its copy
	r.log.Warn("mark delivered failed", "id", id, "err", err)
	return false
}

// SetTyping forwards a typing transition to the recipient when the pair is
// matched. A "true" not refreshed within the debounce window is followed
// by an automatic "false".
func (r *Router) SetTyping(ctx context.Context, sender, recipient string, isTyping bool) error {
	matched, err := r.matcher.IsMatched(ctx, sender, recipient)
	if err != nil {
		return err
	}
	if !matched {
		return svcErr.ErrNotMatched
	}
	r.typing.set(sender, recipient, isTyping)
	return nil
}

// IsTyping reports the server-side view of from->to.
func (r *Router) IsTyping(from, to string) bool { return r.typing.isTyping(from, to) }

// History returns the conversation between identity and with, newest first.
// limit <= 0 uses the configured page size.
func (r *Router) History(ctx context.Context, identity, with string, paginationToken *string, limit int) (HistoryPage, error) {
	if identity == "" || with == "" || identity == with {
		return HistoryPage{}, svcErr.ErrInvalidOperation
	}
	if limit <= 0 || limit > r.cfg.HistoryPageSize {
		limit = r.cfg.HistoryPageSize
	}

	rows, next, err := r.store.ListConversation(ctx, identity, with, paginationToken, limit)
	if err != nil {
		return HistoryPage{}, svcErr.Storage(err)
	}
	page := HistoryPage{Messages: make([]Message, 0, len(rows)), Next: next}
	for _, m := range rows {
		page.Messages = append(page.Messages, fromDB(m))
	}
	return page, nil
}

// IdentityOnline implements presence.Listener.
func (r *Router) IdentityOnline(string) {}

// IdentityOffline clears whatever the identity was typing.
func (r *Router) IdentityOffline(identity string) { r.typing.clearSender(identity) }

// Close stops pending typing timers.
func (r *Router) Close() { r.typing.close() }

func (r *Router) pushTyping(from, to string, isTyping bool) {
	ev := realtime.MustEvent(realtime.TypeTyping, realtime.Typing{From: from, IsTyping: isTyping})
	for _, c := range r.presence.ConnectionsOf(to) {
		_ = c.Send(ev)
	}
}
