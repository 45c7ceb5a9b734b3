package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/oggyb/muzz-realtime/internal/cache"
	"github.com/oggyb/muzz-realtime/internal/presence"
	"github.com/oggyb/muzz-realtime/internal/realtime"
	"github.com/oggyb/muzz-realtime/internal/service/match"
	"github.com/oggyb/muzz-realtime/internal/utils/keyed"
)

const mirrorTimeout = 2 * time.Second

// Hub turns match and presence transitions into pushes.
type Hub struct {
	registry *presence.Registry
	mirror   *cache.PresenceMirror
	log      *slog.Logger

	// serializes presence publication per identity
	identities *keyed.Mutex
}

// NewHub accepts a nil mirror for single-instance setups.
func NewHub(registry *presence.Registry, mirror *cache.PresenceMirror, log *slog.Logger) *Hub {
	return &Hub{registry: registry, mirror: mirror, log: log, identities: keyed.New()}
}

var (
	_ match.Notifier    = (*Hub)(nil)
	_ presence.Listener = (*Hub)(nil)
)

func (h *Hub) MatchCreated(m match.Match) {
	at := m.MatchedAt.UnixMilli()
	h.push(m.UserA, realtime.MustEvent(realtime.TypeMatchCreated, realtime.MatchCreated{With: m.UserB, MatchedAt: at}))
	h.push(m.UserB, realtime.MustEvent(realtime.TypeMatchCreated, realtime.MatchCreated{With: m.UserA, MatchedAt: at}))
}

func (h *Hub) MatchRetracted(a, b string) {
	h.push(a, realtime.MustEvent(realtime.TypeMatchRetracted, realtime.MatchRetracted{With: b}))
	h.push(b, realtime.MustEvent(realtime.TypeMatchRetracted, realtime.MatchRetracted{With: a}))
}

func (h *Hub) IdentityOnline(identity string)  { h.presenceChanged(identity) }
func (h *Hub) IdentityOffline(identity string) { h.presenceChanged(identity) }

// presenceChanged re-reads the registry instead of trusting the callback.
// The read, the mirror write and the fan-out run under the identity's lock,
// so the last published state of an identity is always its real state.
func (h *Hub) presenceChanged(identity string) {
	unlock := h.identities.Lock(identity)
	defer unlock()

	online := h.registry.IsOnline(identity)

	if h.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		var err error
		if online {
			err = h.mirror.MarkOnline(ctx, identity)
		} else {
			err = h.mirror.MarkOffline(ctx, identity)
		}
		cancel()
		if err != nil {
			h.log.Warn("presence mirror update failed", "identity", identity, "online", online, "err", err)
		}
	}

	ev := realtime.MustEvent(realtime.TypePresence, realtime.Presence{Identity: identity, Online: online})
	for _, c := range h.registry.All() {
		_ = c.Send(ev)
	}
}

// Online returns who is online across all instances when a mirror is
// configured and locally otherwise. Mirror failures fall back to local.
func (h *Hub) Online(ctx context.Context) []string {
	local := h.registry.ListOnline()
	if h.mirror == nil {
		return local
	}
	remote, err := h.mirror.OnlineAcrossInstances(ctx)
	if err != nil {
		h.log.Warn("presence mirror read failed", "err", err)
		return local
	}
	seen := make(map[string]struct{}, len(local)+len(remote))
	out := make([]string, 0, len(local)+len(remote))
	for _, list := range [][]string{local, remote} {
		for _, id := range list {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

func (h *Hub) push(identity string, ev realtime.Event) {
	for _, c := range h.registry.ConnectionsOf(identity) {
		_ = c.Send(ev)
	}
}
