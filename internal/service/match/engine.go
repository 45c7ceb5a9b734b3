// Package match turns directed likes into undirected matches.
//
// The engine holds no locks and caches nothing. Correctness across
// processes comes from the store's unique constraints: a like is written
// with insert-if-absent on (liker, liked) and a match with insert-if-absent
// on the canonical pair. After every write the engine settles the pair:
// it re-reads both likes, makes the match row agree with them and repeats
// if a concurrent writer moved the likes in between.
package match

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/repository"
)

const maxSettleRounds = 5

// Store is the slice of the profile store the engine needs.
type Store interface {
	ProfileExists(ctx context.Context, username string) (bool, error)
	InsertLike(ctx context.Context, liker, liked string) (bool, error)
	DeleteLike(ctx context.Context, liker, liked string) (bool, error)
	HasLike(ctx context.Context, liker, liked string) (bool, error)
	InsertMatch(ctx context.Context, a, b string, at time.Time) (bool, error)
	DeleteMatch(ctx context.Context, a, b string) (bool, error)
	GetMatch(ctx context.Context, a, b string) (*db.Match, error)
	ListMatches(ctx context.Context, identity string) ([]db.Match, error)
}

// Match is a created match in canonical order.
type Match struct {
	UserA     string
	UserB     string
	MatchedAt time.Time
}

// Notifier hears about match transitions. Calls are synchronous and must
// not block.
type Notifier interface {
	MatchCreated(m Match)
	MatchRetracted(a, b string)
}

// LikeObserver is told whose liked-you count changed.
type LikeObserver interface {
	LikesChanged(ctx context.Context, liked string)
}

// LikeResult is the outcome of RecordLike.
type LikeResult struct {
	Liked        string
	IsMatch      bool
	AlreadyLiked bool
	// Created is true only for the caller whose insert created the match.
	Created   bool
	MatchedAt time.Time
}

// UnlikeResult is the outcome of Unlike.
type UnlikeResult struct {
	Liked     string
	Removed   bool
	Retracted bool
}

// Relation is the state of an unordered pair.
type Relation int

const (
	NoRelation Relation = iota
	OneSidedLike
	Matched
)

func (r Relation) String() string {
	switch r {
	case OneSidedLike:
		return "one_sided_like"
	case Matched:
		return "matched"
	default:
		return "no_relation"
	}
}

// PairState is what the store currently says about {A, B}.
type PairState struct {
	AToB    bool
	BToA    bool
	Matched bool
}

func (s PairState) Relation() Relation {
	switch {
	case s.Matched:
		return Matched
	case s.AToB || s.BToA:
		return OneSidedLike
	default:
		return NoRelation
	}
}

// MatchView is one match seen from one member.
type MatchView struct {
	With      string
	MatchedAt time.Time
}

type Engine struct {
	store    Store
	log      *slog.Logger
	notifier Notifier
	observer LikeObserver
	now      func() time.Time
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option        { return func(e *Engine) { e.notifier = n } }
func WithLikeObserver(o LikeObserver) Option { return func(e *Engine) { e.observer = o } }

// WithClock overrides the matched_at clock.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func NewEngine(store Store, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// SetNotifier wires the notifier after construction, for callers that
// build the engine before the component that receives the events.
func (e *Engine) SetNotifier(n Notifier) { e.notifier = n }

func validPair(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && a != b
}

// RecordLike records liker -> liked and reports whether the pair is now
// matched.
//
// Behavior:
//   - Self likes and empty identities fail with ErrInvalidOperation.
//   - An unknown liked identity fails with ErrUserNotFound.
//   - A repeated like returns the current state together with ErrAlreadyLiked.
//   - Simultaneous mutual likes both see IsMatch=true; only one sees Created.
func (e *Engine) RecordLike(ctx context.Context, liker, liked string) (LikeResult, error) {
	res := LikeResult{Liked: liked}
	if !validPair(liker, liked) {
		return res, svcErr.ErrInvalidOperation
	}

	exists, err := e.store.ProfileExists(ctx, liked)
	if err != nil {
		return res, svcErr.Storage(err)
	}
	if !exists {
		return res, svcErr.ErrUserNotFound
	}

	inserted, err := e.store.InsertLike(ctx, liker, liked)
	if err != nil && !errors.Is(err, svcErr.ErrConstraintRace) {
		return res, svcErr.Storage(err)
	}
	if inserted {
		e.likesChanged(ctx, liked)
	}

	out, err := e.settle(ctx, liker, liked)
	if err != nil {
		return res, err
	}
	res.IsMatch = out.matched
	res.MatchedAt = out.matchedAt

	if !inserted {
		res.AlreadyLiked = true
		return res, svcErr.ErrAlreadyLiked
	}

	res.Created = out.created
	e.log.Debug("like recorded", "liker", liker, "liked", liked, "is_match", res.IsMatch, "created", res.Created)
	return res, nil
}

// Unlike withdraws liker -> liked and retracts the match if there was one.
// Unliking something never liked is a successful no-op.
func (e *Engine) Unlike(ctx context.Context, liker, liked string) (UnlikeResult, error) {
	res := UnlikeResult{Liked: liked}
	if !validPair(liker, liked) {
		return res, svcErr.ErrInvalidOperation
	}

	removed, err := e.store.DeleteLike(ctx, liker, liked)
	if err != nil {
		return res, svcErr.Storage(err)
	}
	res.Removed = removed
	if removed {
		e.likesChanged(ctx, liked)
	}

	out, err := e.settle(ctx, liker, liked)
	if err != nil {
		return res, err
	}
	res.Retracted = out.retracted
	e.log.Debug("like withdrawn", "liker", liker, "liked", liked, "removed", removed, "retracted", res.Retracted)
	return res, nil
}

// IsMatched reports whether a and b currently share a match.
func (e *Engine) IsMatched(ctx context.Context, a, b string) (bool, error) {
	if !validPair(a, b) {
		return false, nil
	}
	m, err := e.store.GetMatch(ctx, a, b)
	if err != nil {
		return false, svcErr.Storage(err)
	}
	return m != nil, nil
}

// State reads both directed likes and the match row of {a, b}.
func (e *Engine) State(ctx context.Context, a, b string) (PairState, error) {
	var st PairState
	if !validPair(a, b) {
		return st, svcErr.ErrInvalidOperation
	}
	var err error
	if st.AToB, err = e.store.HasLike(ctx, a, b); err != nil {
		return st, svcErr.Storage(err)
	}
	if st.BToA, err = e.store.HasLike(ctx, b, a); err != nil {
		return st, svcErr.Storage(err)
	}
	m, err := e.store.GetMatch(ctx, a, b)
	if err != nil {
		return st, svcErr.Storage(err)
	}
	st.Matched = m != nil
	return st, nil
}

// GetMatches lists identity's matches resolved to the other member, newest
// first.
func (e *Engine) GetMatches(ctx context.Context, identity string) ([]MatchView, error) {
	rows, err := e.store.ListMatches(ctx, identity)
	if err != nil {
		return nil, svcErr.Storage(err)
	}
	out := make([]MatchView, 0, len(rows))
	for _, m := range rows {
		other := m.UserA
		if other == identity {
			other = m.UserB
		}
		out = append(out, MatchView{With: other, MatchedAt: m.MatchedAt})
	}
	return out, nil
}

type settled struct {
	matched   bool
	created   bool
	retracted bool
	matchedAt time.Time
}

// settle makes the match row of {a, b} agree with the two likes and emits
// the transition this caller caused, if any.
func (e *Engine) settle(ctx context.Context, a, b string) (settled, error) {
	var out settled
	delta := 0 // rows this caller created minus rows it deleted
	for round := 0; round < maxSettleRounds; round++ {
		want, err := e.bothLiked(ctx, a, b)
		if err != nil {
			return out, err
		}

		if want {
			at := e.now()
			created, err := e.store.InsertMatch(ctx, a, b, at)
			if err != nil && !errors.Is(err, svcErr.ErrConstraintRace) {
				return out, svcErr.Storage(err)
			}
			if created {
				delta++
				out.matchedAt = at
			}
		} else {
			deleted, err := e.store.DeleteMatch(ctx, a, b)
			if err != nil {
				return out, svcErr.Storage(err)
			}
			if deleted {
				delta--
			}
		}

		again, err := e.bothLiked(ctx, a, b)
		if err != nil {
			return out, err
		}
		if again == want {
			out.matched = want
			break
		}
		// a concurrent like/unlike moved underneath us
		e.log.Debug("match settle retry", "a", a, "b", b, "round", round)
		if round == maxSettleRounds-1 {
			e.log.Warn("match settle gave up", "a", a, "b", b)
			out.matched = again
		}
	}

	out.created = delta > 0 && out.matched
	out.retracted = delta < 0 && !out.matched

	if out.matched && out.matchedAt.IsZero() {
		if m, err := e.store.GetMatch(ctx, a, b); err == nil && m != nil {
			out.matchedAt = m.MatchedAt
		}
	}

	if e.notifier != nil {
		ua, ub := repository.Canonical(a, b)
		switch {
		case out.created:
			e.notifier.MatchCreated(Match{UserA: ua, UserB: ub, MatchedAt: out.matchedAt})
		case out.retracted:
			e.notifier.MatchRetracted(ua, ub)
		}
	}
	return out, nil
}

func (e *Engine) bothLiked(ctx context.Context, a, b string) (bool, error) {
	ab, err := e.store.HasLike(ctx, a, b)
	if err != nil {
		return false, svcErr.Storage(err)
	}
	if !ab {
		return false, nil
	}
	ba, err := e.store.HasLike(ctx, b, a)
	if err != nil {
		return false, svcErr.Storage(err)
	}
	return ba, nil
}

func (e *Engine) likesChanged(ctx context.Context, liked string) {
	if e.observer != nil {
		e.observer.LikesChanged(ctx, liked)
	}
}
