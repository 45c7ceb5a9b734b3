// Package presence tracks which identities currently hold at least one live
// realtime connection on this instance.
package presence

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/oggyb/muzz-realtime/internal/realtime"
)

const defaultShards = 32

// Listener is told about identity-level transitions. Callbacks run on the
// goroutine that caused the transition, after all registry locks are
// released, so they may call back into the registry.
//
// Two transitions of the same identity racing each other may be observed in
// either order; listeners that need the final state should re-read IsOnline.
type Listener interface {
	IdentityOnline(identity string)
	IdentityOffline(identity string)
}

type identityShard struct {
	mu      sync.Mutex
	entries map[string]map[string]realtime.Conn // identity -> conn id -> conn
}

type connShard struct {
	mu    sync.Mutex
	owner map[string]string // conn id -> identity
}

// Registry is an in-memory identity -> connections map.
//
// Identities and connections are sharded independently and no operation
// holds more than one shard lock at a time.
type Registry struct {
	identities []*identityShard
	conns      []*connShard

	lmu       sync.RWMutex
	listeners []Listener
}

type Option func(*Registry)

// WithShards overrides the shard count (minimum 1).
func WithShards(n int) Option {
	return func(r *Registry) {
		if n < 1 {
			n = 1
		}
		r.identities = newIdentityShards(n)
		r.conns = newConnShards(n)
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		identities: newIdentityShards(defaultShards),
		conns:      newConnShards(defaultShards),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func newIdentityShards(n int) []*identityShard {
	out := make([]*identityShard, n)
	for i := range out {
		out[i] = &identityShard{entries: make(map[string]map[string]realtime.Conn)}
	}
	return out
}

func newConnShards(n int) []*connShard {
	out := make([]*connShard, n)
	for i := range out {
		out[i] = &connShard{owner: make(map[string]string)}
	}
	return out
}

// Subscribe adds a listener. Subscribe before connections start arriving.
func (r *Registry) Subscribe(l Listener) {
	r.lmu.Lock()
	r.listeners = append(r.listeners, l)
	r.lmu.Unlock()
}

func (r *Registry) identityShard(identity string) *identityShard {
	return r.identities[xxhash.Sum64String(identity)%uint64(len(r.identities))]
}

func (r *Registry) connShard(id string) *connShard {
	return r.conns[xxhash.Sum64String(id)%uint64(len(r.conns))]
}

// Register binds conn to identity. Registering the same handle twice is a
// no-op. The first connection of an identity emits IdentityOnline.
//
// Callers must not race Register and Unregister for the same handle.
func (r *Registry) Register(identity string, conn realtime.Conn) {
	cs := r.connShard(conn.ID())
	cs.mu.Lock()
	if _, ok := cs.owner[conn.ID()]; ok {
		cs.mu.Unlock()
		return
	}
	cs.owner[conn.ID()] = identity
	cs.mu.Unlock()

	is := r.identityShard(identity)
	is.mu.Lock()
	set, ok := is.entries[identity]
	if !ok {
		set = make(map[string]realtime.Conn, 1)
		is.entries[identity] = set
	}
	set[conn.ID()] = conn
	is.mu.Unlock()

	if !ok {
		r.notify(identity, true)
	}
}

// Unregister drops conn. Unknown handles are ignored. Removing the last
// connection of an identity emits IdentityOffline.
func (r *Registry) Unregister(conn realtime.Conn) {
	cs := r.connShard(conn.ID())
	cs.mu.Lock()
	identity, ok := cs.owner[conn.ID()]
	delete(cs.owner, conn.ID())
	cs.mu.Unlock()
	if !ok {
		return
	}

	is := r.identityShard(identity)
	is.mu.Lock()
	set := is.entries[identity]
	delete(set, conn.ID())
	empty := set != nil && len(set) == 0
	if empty {
		delete(is.entries, identity)
	}
	is.mu.Unlock()

	if empty {
		r.notify(identity, false)
	}
}

func (r *Registry) IsOnline(identity string) bool {
	is := r.identityShard(identity)
	is.mu.Lock()
	defer is.mu.Unlock()
	return len(is.entries[identity]) > 0
}

// ListOnline returns every online identity in no particular order.
func (r *Registry) ListOnline() []string {
	var out []string
	for _, is := range r.identities {
		is.mu.Lock()
		for identity := range is.entries {
			out = append(out, identity)
		}
		is.mu.Unlock()
	}
	return out
}

// ConnectionsOf returns a snapshot of identity's connections.
func (r *Registry) ConnectionsOf(identity string) []realtime.Conn {
	is := r.identityShard(identity)
	is.mu.Lock()
	defer is.mu.Unlock()
	set := is.entries[identity]
	if len(set) == 0 {
		return nil
	}
	out := make([]realtime.Conn, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// All returns a snapshot of every registered connection.
func (r *Registry) All() []realtime.Conn {
	var out []realtime.Conn
	for _, is := range r.identities {
		is.mu.Lock()
		for _, set := range is.entries {
			for _, c := range set {
				out = append(out, c)
			}
		}
		is.mu.Unlock()
	}
	return out
}

func (r *Registry) notify(identity string, online bool) {
	r.lmu.RLock()
	ls := r.listeners
	r.lmu.RUnlock()
	for _, l := range ls {
		if online {
			l.IdentityOnline(identity)
		} else {
			l.IdentityOffline(identity)
		}
	}
}
