package match_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/repository"
	"github.com/oggyb/muzz-realtime/internal/service/match"
	"github.com/oggyb/muzz-realtime/internal/testutil"
)

//
// Test helpers
//

type recordingNotifier struct {
	mu        sync.Mutex
	created   []match.Match
	retracted [][2]string
}

func (n *recordingNotifier) MatchCreated(m match.Match) {
	n.mu.Lock()
	n.created = append(n.created, m)
	n.mu.Unlock()
}

func (n *recordingNotifier) MatchRetracted(a, b string) {
	n.mu.Lock()
	n.retracted = append(n.retracted, [2]string{a, b})
	n.mu.Unlock()
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.created), len(n.retracted)
}

type fixture struct {
	db       *gorm.DB
	store    *repository.Store
	engine   *match.Engine
	notifier *recordingNotifier
}

func setup(t *testing.T, users ...string) fixture {
	t.Helper()
	database := testutil.NewDB(t)
	if len(users) == 0 {
		users = []string{"alice", "bob", "carol", "dave"}
	}
	testutil.SeedProfiles(t, database, users...)

	store := repository.NewStore(database)
	n := &recordingNotifier{}
	return fixture{
		db:       database,
		store:    store,
		engine:   match.NewEngine(store, testutil.Logger(), match.WithNotifier(n)),
		notifier: n,
	}
}

// assertMatchIffMutual checks every unordered pair of users: a match row
// exists exactly when both directed likes exist.
func assertMatchIffMutual(t *testing.T, f fixture, users []string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			st, err := f.engine.State(ctx, users[i], users[j])
			require.NoError(t, err)
			assert.Equal(t, st.AToB && st.BToA, st.Matched, "pair %s/%s: %+v", users[i], users[j], st)
		}
	}
}

//
// Tests
//

func TestRecordLike_OneSidedThenMutual(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	res, err := f.engine.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, res.IsMatch)
	assert.False(t, res.Created)

	st, err := f.engine.State(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, match.OneSidedLike, st.Relation())

	res, err = f.engine.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, res.IsMatch)
	assert.True(t, res.Created)
	assert.False(t, res.MatchedAt.IsZero())

	ok, err := f.engine.IsMatched(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	created, _ := f.notifier.counts()
	require.Equal(t, 1, created)
	assert.Equal(t, "alice", f.notifier.created[0].UserA)
	assert.Equal(t, "bob", f.notifier.created[0].UserB)
}

func TestRecordLike_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.engine.RecordLike(ctx, "alice", "alice")
	assert.ErrorIs(t, err, svcErr.ErrInvalidOperation)

	_, err = f.engine.RecordLike(ctx, "", "bob")
	assert.ErrorIs(t, err, svcErr.ErrInvalidOperation)

	_, err = f.engine.RecordLike(ctx, "alice", "nobody")
	assert.ErrorIs(t, err, svcErr.ErrUserNotFound)

	_, err = f.engine.Unlike(ctx, "bob", "bob")
	assert.ErrorIs(t, err, svcErr.ErrInvalidOperation)
}

func TestRecordLike_Twice(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.engine.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)

	res, err := f.engine.RecordLike(ctx, "alice", "bob")
	assert.ErrorIs(t, err, svcErr.ErrAlreadyLiked)
	assert.True(t, res.AlreadyLiked)
	assert.False(t, res.IsMatch)

	var likes int64
	require.NoError(t, f.db.Model(&db.Like{}).Count(&likes).Error)
	assert.Equal(t, int64(1), likes)

	// once matched, a repeated like reports the match and creates nothing new
	_, err = f.engine.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)

	res, err = f.engine.RecordLike(ctx, "bob", "alice")
	assert.ErrorIs(t, err, svcErr.ErrAlreadyLiked)
	assert.True(t, res.IsMatch)
	assert.False(t, res.Created)

	created, _ := f.notifier.counts()
	assert.Equal(t, 1, created)
}

func TestUnlike_RetractsMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.engine.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = f.engine.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)

	res, err := f.engine.Unlike(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.True(t, res.Retracted)

	st, err := f.engine.State(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, match.OneSidedLike, st.Relation())
	assert.True(t, st.AToB)
	assert.False(t, st.BToA)

	_, retracted := f.notifier.counts()
	assert.Equal(t, 1, retracted)

	// unliking again is a no-op
	res, err = f.engine.Unlike(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, res.Removed)
	assert.False(t, res.Retracted)

	_, retracted = f.notifier.counts()
	assert.Equal(t, 1, retracted)

	// liking back re-creates the match
	again, err := f.engine.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, again.IsMatch)
	assert.True(t, again.Created)
}

func TestGetMatches_OtherMemberNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	engine := match.NewEngine(f.store, testutil.Logger(), match.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))

	for _, other := range []string{"bob", "carol", "dave"} {
		_, err := engine.RecordLike(ctx, "alice", other)
		require.NoError(t, err)
		_, err = engine.RecordLike(ctx, other, "alice")
		require.NoError(t, err)
	}

	ms, err := engine.GetMatches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, "dave", ms[0].With)
	assert.Equal(t, "carol", ms[1].With)
	assert.Equal(t, "bob", ms[2].With)

	ms, err = engine.GetMatches(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "alice", ms[0].With)
}

func TestMatchIffMutual_RandomSequence(t *testing.T) {
	ctx := context.Background()
	users := []string{"alice", "bob", "carol", "dave"}
	f := setup(t, users...)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		a, b := users[r.Intn(len(users))], users[r.Intn(len(users))]
		if a == b {
			continue
		}
		if r.Intn(3) == 0 {
			_, err := f.engine.Unlike(ctx, a, b)
			require.NoError(t, err)
		} else {
			_, err := f.engine.RecordLike(ctx, a, b)
			if err != nil {
				require.ErrorIs(t, err, svcErr.ErrAlreadyLiked)
			}
		}
		assertMatchIffMutual(t, f, users)
	}
}

func TestMatchIffMutual_Concurrent(t *testing.T) {
	ctx := context.Background()
	users := []string{"alice", "bob", "carol"}
	f := setup(t, users...)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < 40; i++ {
				a, b := users[r.Intn(len(users))], users[r.Intn(len(users))]
				if a == b {
					continue
				}
				if r.Intn(3) == 0 {
					_, _ = f.engine.Unlike(ctx, a, b)
				} else {
					_, _ = f.engine.RecordLike(ctx, a, b)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	assertMatchIffMutual(t, f, users)
}

// barrierStore holds every InsertLike until all expected callers have
// written their like, so both settles observe both likes.
type barrierStore struct {
	match.Store
	wg *sync.WaitGroup
}

func (s barrierStore) InsertLike(ctx context.Context, liker, liked string) (bool, error) {
	ok, err := s.Store.InsertLike(ctx, liker, liked)
	s.wg.Done()
	s.wg.Wait()
	return ok, err
}

func TestSimultaneousMutualLikes_ExactlyOneMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	var barrier sync.WaitGroup
	barrier.Add(2)
	engine := match.NewEngine(barrierStore{Store: f.store, wg: &barrier}, testutil.Logger(), match.WithNotifier(f.notifier))

	results := make([]match.LikeResult, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		wg.Add(1)
		go func(i int, liker, liked string) {
			defer wg.Done()
			results[i], errs[i] = engine.RecordLike(ctx, liker, liked)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.True(t, results[0].IsMatch)
	assert.True(t, results[1].IsMatch)
	assert.True(t, results[0].Created != results[1].Created, "exactly one caller creates the match")

	var rows int64
	require.NoError(t, f.db.Model(&db.Match{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	created, _ := f.notifier.counts()
	assert.Equal(t, 1, created)
}

func TestState_Relations(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	st, err := f.engine.State(ctx, "carol", "dave")
	require.NoError(t, err)
	assert.Equal(t, match.NoRelation, st.Relation())
	assert.Equal(t, "no_relation", st.Relation().String())

	_, err = f.engine.State(ctx, "carol", "carol")
	assert.ErrorIs(t, err, svcErr.ErrInvalidOperation)

	_, err = f.engine.RecordLike(ctx, "carol", "dave")
	require.NoError(t, err)
	_, err = f.engine.RecordLike(ctx, "dave", "carol")
	require.NoError(t, err)

	st, err = f.engine.State(ctx, "dave", "carol")
	require.NoError(t, err)
	assert.Equal(t, match.Matched, st.Relation())
	assert.Equal(t, "matched", fmt.Sprint(st.Relation()))
}
