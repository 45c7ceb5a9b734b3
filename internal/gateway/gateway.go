// Package gateway is the websocket edge: it authenticates sessions,
// registers them for presence and dispatches inbound events to the match
// engine and the conversation router.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/oggyb/muzz-realtime/internal/auth"
	"github.com/oggyb/muzz-realtime/internal/cache"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/presence"
	"github.com/oggyb/muzz-realtime/internal/realtime"
	"github.com/oggyb/muzz-realtime/internal/service/chat"
	"github.com/oggyb/muzz-realtime/internal/service/match"
)

// errSenderMismatch closes the connection: a client claimed to be someone
// else.
var errSenderMismatch = errors.New("sender does not match authenticated identity")

// Matcher is what the gateway needs from the match engine.
type Matcher interface {
	RecordLike(ctx context.Context, liker, liked string) (match.LikeResult, error)
	Unlike(ctx context.Context, liker, liked string) (match.UnlikeResult, error)
}

// Conversations is what the gateway needs from the chat router.
type Conversations interface {
	Send(ctx context.Context, req chat.SendRequest) (chat.Message, error)
	SetTyping(ctx context.Context, sender, recipient string, isTyping bool) error
}

// Limiter throttles inbound messages per identity.
type Limiter interface {
	Allow(ctx context.Context, key string) (cache.Decision, error)
}

type Config struct {
	SendBuffer     int
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

type Gateway struct {
	registry *presence.Registry
	hub      *Hub
	matcher  Matcher
	chat     Conversations
	limiter  Limiter
	log      *slog.Logger
	cfg      Config

	wg sync.WaitGroup
}

// New builds a gateway. limiter may be nil.
func New(registry *presence.Registry, hub *Hub, matcher Matcher, conversations Conversations, limiter Limiter, log *slog.Logger, cfg Config) *Gateway {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Gateway{
		registry: registry,
		hub:      hub,
		matcher:  matcher,
		chat:     conversations,
		limiter:  limiter,
		log:      log,
		cfg:      cfg,
	}
}

// RegisterRoutes mounts GET /ws. The router must already run auth.Middleware.
func (g *Gateway) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws", websocket.New(g.serve))
}

// Wait blocks until every session handler returned.
func (g *Gateway) Wait() { g.wg.Wait() }

// CloseAll disconnects every local session, e.g. on shutdown.
func (g *Gateway) CloseAll() {
	for _, c := range g.registry.All() {
		if cl, ok := c.(*client); ok {
			cl.closeWith(websocket.CloseGoingAway, "server shutting down")
		}
	}
}

func (g *Gateway) serve(ws *websocket.Conn) {
	g.wg.Add(1)
	defer g.wg.Done()

	identity, _ := ws.Locals(auth.LocalsKey).(string)
	if identity == "" {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"),
			time.Now().Add(time.Second))
		return
	}

	cl := newClient(ws, identity, g.cfg.SendBuffer, g.cfg.WriteTimeout, g.log)
	go cl.writePump()

	g.registry.Register(identity, cl)
	var unregister sync.Once
	defer unregister.Do(func() {
		g.registry.Unregister(cl)
		cl.shutdown()
		cl.log.Info("websocket disconnected")
	})
	cl.log.Info("websocket connected")

	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.RequestTimeout)
	_ = cl.Send(realtime.MustEvent(realtime.TypePresenceSnapshot, realtime.PresenceSnapshot{Online: g.hub.Online(ctx)}))
	cancel()

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				cl.log.Debug("websocket read failed", "err", err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		var ev realtime.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			g.sendError(cl, "", "", "bad_request", "invalid event format", false)
			continue
		}

		if err := g.dispatch(cl, ev); errors.Is(err, errSenderMismatch) {
			cl.log.Warn("sender mismatch, closing connection", "event", ev.Type)
			cl.closeWith(websocket.ClosePolicyViolation, errSenderMismatch.Error())
			return
		}
	}
}

// dispatch handles one inbound event. Only a trust violation is returned;
// everything else is reported to the client as an error event.
func (g *Gateway) dispatch(cl *client, ev realtime.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.RequestTimeout)
	defer cancel()

	switch ev.Type {
	case realtime.TypeLike:
		var in realtime.LikeIn
		if err := ev.Decode(&in); err != nil {
			g.sendError(cl, ev.Type, "", "bad_request", "invalid payload", false)
			return nil
		}
		if !sameSender(in.Sender, cl.identity) {
			return errSenderMismatch
		}
		res, err := g.matcher.RecordLike(ctx, cl.identity, in.Liked)
		if err != nil && !errors.Is(err, svcErr.ErrAlreadyLiked) {
			g.sendServiceError(cl, ev.Type, "", err)
			return nil
		}
		_ = cl.Send(realtime.MustEvent(realtime.TypeLikeResult, realtime.LikeResult{
			Liked:        in.Liked,
			IsMatch:      res.IsMatch,
			AlreadyLiked: res.AlreadyLiked,
		}))

	case realtime.TypeUnlike:
		var in realtime.UnlikeIn
		if err := ev.Decode(&in); err != nil {
			g.sendError(cl, ev.Type, "", "bad_request", "invalid payload", false)
			return nil
		}
		if !sameSender(in.Sender, cl.identity) {
			return errSenderMismatch
		}
		if _, err := g.matcher.Unlike(ctx, cl.identity, in.Liked); err != nil {
			g.sendServiceError(cl, ev.Type, "", err)
			return nil
		}
		_ = cl.Send(realtime.MustEvent(realtime.TypeUnlikeResult, realtime.UnlikeResult{Liked: in.Liked}))

	case realtime.TypeMessage:
		var in realtime.MessageIn
		if err := ev.Decode(&in); err != nil {
			g.sendError(cl, ev.Type, "", "bad_request", "invalid payload", false)
			return nil
		}
		if !sameSender(in.Sender, cl.identity) {
			return errSenderMismatch
		}
		if !g.allow(ctx, cl, in.Ref) {
			return nil
		}
		// the router acks on every sender connection, this one included
		if _, err := g.chat.Send(ctx, chat.SendRequest{
			Sender:    cl.identity,
			Recipient: in.Recipient,
			Body:      in.Body,
			Ref:       in.Ref,
		}); err != nil {
			g.sendServiceError(cl, ev.Type, in.Ref, err)
		}

	case realtime.TypeTyping:
		var in realtime.TypingIn
		if err := ev.Decode(&in); err != nil {
			g.sendError(cl, ev.Type, "", "bad_request", "invalid payload", false)
			return nil
		}
		if !sameSender(in.Sender, cl.identity) {
			return errSenderMismatch
		}
		if err := g.chat.SetTyping(ctx, cl.identity, in.Recipient, in.IsTyping); err != nil {
			g.sendServiceError(cl, ev.Type, "", err)
		}

	default:
		g.sendError(cl, ev.Type, "", "unknown_event", "unknown event type: "+ev.Type, false)
	}
	return nil
}

func (g *Gateway) allow(ctx context.Context, cl *client, ref string) bool {
	if g.limiter == nil {
		return true
	}
	d, err := g.limiter.Allow(ctx, cl.identity)
	if err != nil {
		// limiter outage must not take chat down with it
		cl.log.Warn("rate limiter unavailable", "err", err)
		return true
	}
	if !d.Allowed {
		g.sendError(cl, realtime.TypeMessage, ref, "rate_limited", "too many messages, retry in "+d.RetryAfter.Round(time.Millisecond).String(), true)
		return false
	}
	return true
}

func sameSender(claimed, identity string) bool {
	return claimed == "" || claimed == identity
}

func (g *Gateway) sendServiceError(cl *client, event, ref string, err error) {
	if svcErr.Code(err) == "internal" {
		cl.log.Error("event failed", "event", event, "err", err)
	}
	g.sendError(cl, event, ref, svcErr.Code(err), err.Error(), svcErr.Retryable(err))
}

func (g *Gateway) sendError(cl *client, event, ref, code, msg string, retryable bool) {
	_ = cl.Send(realtime.MustEvent(realtime.TypeError, realtime.Error{
		Code:      code,
		Message:   msg,
		Retryable: retryable,
		Ref:       ref,
		Event:     event,
	}))
}
