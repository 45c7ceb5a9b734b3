package presence_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-realtime/internal/presence"
	"github.com/oggyb/muzz-realtime/internal/testutil"
)

type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) IdentityOnline(id string) {
	r.mu.Lock()
	r.log = append(r.log, "+"+id)
	r.mu.Unlock()
}

func (r *recorder) IdentityOffline(id string) {
	r.mu.Lock()
	r.log = append(r.log, "-"+id)
	r.mu.Unlock()
}

func (r *recorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func TestRegistry_Lifecycle(t *testing.T) {
	reg := presence.NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec)

	c1 := testutil.NewFakeConn("alice")
	c2 := testutil.NewFakeConn("alice")

	assert.False(t, reg.IsOnline("alice"))
	assert.Empty(t, reg.ConnectionsOf("alice"))

	reg.Register("alice", c1)
	reg.Register("alice", c1) // same handle, no-op
	reg.Register("alice", c2)

	assert.True(t, reg.IsOnline("alice"))
	assert.Len(t, reg.ConnectionsOf("alice"), 2)
	assert.Equal(t, []string{"alice"}, reg.ListOnline())

	reg.Unregister(c1)
	assert.True(t, reg.IsOnline("alice"))

	reg.Unregister(c2)
	reg.Unregister(c2) // unknown now, silent
	assert.False(t, reg.IsOnline("alice"))
	assert.Empty(t, reg.ListOnline())

	assert.Equal(t, []string{"+alice", "-alice"}, rec.entries())
}

func TestRegistry_UnknownConnection(t *testing.T) {
	reg := presence.NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec)

	reg.Unregister(testutil.NewFakeConn("ghost"))
	assert.Empty(t, rec.entries())
}

func TestRegistry_ConcurrentConnectDisconnect(t *testing.T) {
	reg := presence.NewRegistry(presence.WithShards(4))

	const identities = 20
	const perIdentity = 10

	var wg sync.WaitGroup
	for i := 0; i < identities; i++ {
		for j := 0; j < perIdentity; j++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c := testutil.NewFakeConn(fmt.Sprintf("user%d", i))
				reg.Register(c.Identity(), c)
				_ = reg.IsOnline(c.Identity())
				_ = reg.ListOnline()
				reg.Unregister(c)
			}(i)
		}
	}
	wg.Wait()

	assert.Empty(t, reg.ListOnline())
	assert.Empty(t, reg.All())
}

func TestRegistry_ListenerMayReenter(t *testing.T) {
	reg := presence.NewRegistry()
	var seen []bool
	reg.Subscribe(listenerFunc{
		online:  func(id string) { seen = append(seen, reg.IsOnline(id)) },
		offline: func(id string) { seen = append(seen, reg.IsOnline(id)) },
	})

	c := testutil.NewFakeConn("bob")
	reg.Register("bob", c)
	reg.Unregister(c)
	require.Equal(t, []bool{true, false}, seen)
}

type listenerFunc struct {
	online  func(string)
	offline func(string)
}

func (l listenerFunc) IdentityOnline(id string)  { l.online(id) }
func (l listenerFunc) IdentityOffline(id string) { l.offline(id) }
