package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/utils/pagination"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries on directed liker -> liked edges.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Insert adds liker -> liked if it is absent.
//
// Behavior:
//   - Returns created=true only for the call whose row was written.
//   - An existing row yields created=false and svcErr.ErrConstraintRace;
//     callers resolve it by re-reading state.
//   - Composite PK (liker, liked) makes this atomic across processes.
//
// Example:
//
//	created, err := repo.Insert(ctx, "alice", "bob")
func (r *LikeRepository) Insert(ctx context.Context, liker, liked string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Like{Liker: liker, Liked: liked})
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

// Delete removes liker -> liked. Returns whether a row existed.
func (r *LikeRepository) Delete(ctx context.Context, liker, liked string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("liker = ? AND liked = ?", liker, liked).
		Delete(&db.Like{})
	return res.RowsAffected > 0, res.Error
}

// Exists checks whether liker has liked liked.
//
// Example:
//
//	repo.Exists(ctx, "bob", "alice") // -> true if bob liked alice
func (r *LikeRepository) Exists(ctx context.Context, liker, liked string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker = ? AND liked = ?", liker, liked).
		Count(&count).Error
	return count > 0, err
}

// CountLikers returns how many users liked the given identity.
// Used in conjunction with Redis cache (DB is fallback).
func (r *LikeRepository) CountLikers(ctx context.Context, liked string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liked = ?", liked).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LikedBy lists every identity the liker has liked.
func (r *LikeRepository) LikedBy(ctx context.Context, liker string) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker = ?", liker).
		Pluck("liked", &out).Error
	return out, err
}

// ListSent returns the likes liker has given, newest first.
//
// Behavior:
//   - Ordered by created_at DESC, liked DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListSent(ctx, "alice", nil, 20)
func (r *LikeRepository) ListSent(
	ctx context.Context,
	liker string,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	cursor, err := decodeCursor(paginationToken)
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.liker = ?", liker).
		Order("l.created_at DESC, l.liked DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.liked < ?))",
			ts, ts, cursor.Identity,
		)
	}

	var likes []db.Like
	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, err
	}

	page, next := pagination.Trim(likes, limit, func(l db.Like) pagination.Cursor {
		return pagination.Cursor{CreatedUnix: l.CreatedAt.UnixMilli(), Identity: l.Liked}
	})
	return page, next, nil
}

// ListReceived returns the likes liked has received, newest first.
//
// Behavior:
//   - onlyNew=true excludes likers that liked has already liked back.
//   - Ordered by created_at DESC, liker DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListReceived(ctx, "bob", true, nil, 20) // one-way likes for bob
func (r *LikeRepository) ListReceived(
	ctx context.Context,
	liked string,
	onlyNew bool,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	cursor, err := decodeCursor(paginationToken)
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.liked = ?", liked).
		Order("l.created_at DESC, l.liker DESC").
		Limit(limit + 1)

	if onlyNew {
		// subquery to exclude mutual likes
		back := r.db.
			Table("likes").
			Select("1").
			Where("liker = l.liked AND liked = l.liker")
		query = query.Where("NOT EXISTS (?)", back)
	}

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.liker < ?))",
			ts, ts, cursor.Identity,
		)
	}

	var likes []db.Like
	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, err
	}

	page, next := pagination.Trim(likes, limit, func(l db.Like) pagination.Cursor {
		return pagination.Cursor{CreatedUnix: l.CreatedAt.UnixMilli(), Identity: l.Liker}
	})
	return page, next, nil
}
