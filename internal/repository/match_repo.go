package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
)

// Canonical orders a pair so the lexicographically smaller identity comes first.
func Canonical(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// MatchRepository stores undirected matches keyed by their canonical pair.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// Insert creates the match for {a, b} unless it already exists.
//
// Behavior:
//   - Pair is canonicalized, argument order does not matter.
//   - created=false with svcErr.ErrConstraintRace means another writer got
//     there first; the row exists.
func (r *MatchRepository) Insert(ctx context.Context, a, b string, at time.Time) (bool, error) {
	ua, ub := Canonical(a, b)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Match{UserA: ua, UserB: ub, MatchedAt: at})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return false, svcErr.ErrConstraintRace
	}
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, svcErr.ErrConstraintRace
	}
	return true, nil
}

// Delete removes the match for {a, b}. Returns whether a row existed.
func (r *MatchRepository) Delete(ctx context.Context, a, b string) (bool, error) {
	ua, ub := Canonical(a, b)
	res := r.db.WithContext(ctx).
		Where("user_a = ? AND user_b = ?", ua, ub).
		Delete(&db.Match{})
	return res.RowsAffected > 0, res.Error
}

// Get returns the match for {a, b} or nil when there is none.
func (r *MatchRepository) Get(ctx context.Context, a, b string) (*db.Match, error) {
	ua, ub := Canonical(a, b)
	var m db.Match
	err := r.db.WithContext(ctx).
		Where("user_a = ? AND user_b = ?", ua, ub).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListFor returns every match involving identity, newest first.
func (r *MatchRepository) ListFor(ctx context.Context, identity string) ([]db.Match, error) {
	var out []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", identity, identity).
		Order("matched_at DESC, user_a, user_b").
		Find(&out).Error
	return out, err
}
