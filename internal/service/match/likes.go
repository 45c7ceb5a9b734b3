package match

import (
	"context"
	"time"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
)

const defaultLikesPageSize = 20

// LikeLister is the store query behind the like listings.
type LikeLister interface {
	ListLikesSent(ctx context.Context, liker string, paginationToken *string, limit int) ([]db.Like, *string, error)
	ListLikesReceived(ctx context.Context, liked string, onlyNew bool, paginationToken *string, limit int) ([]db.Like, *string, error)
}

// LikeView is one like seen from one side: With is the other identity.
type LikeView struct {
	With    string
	LikedAt time.Time
}

// LikePage is one page of likes, newest first.
type LikePage struct {
	Likes []LikeView
	Next  *string
}

// Likes lists directed likes. It reads the store only; state changes stay
// with the Engine.
type Likes struct {
	store    LikeLister
	pageSize int
}

// NewLikes caps pages at pageSize; <= 0 uses the default.
func NewLikes(store LikeLister, pageSize int) *Likes {
	if pageSize <= 0 {
		pageSize = defaultLikesPageSize
	}
	return &Likes{store: store, pageSize: pageSize}
}

// Sent lists the identities liker has liked.
func (l *Likes) Sent(ctx context.Context, liker string, paginationToken *string, limit int) (LikePage, error) {
	if liker == "" {
		return LikePage{}, svcErr.ErrInvalidOperation
	}
	rows, next, err := l.store.ListLikesSent(ctx, liker, paginationToken, l.limit(limit))
	if err != nil {
		return LikePage{}, svcErr.Storage(err)
	}
	page := LikePage{Likes: make([]LikeView, 0, len(rows)), Next: next}
	for _, r := range rows {
		page.Likes = append(page.Likes, LikeView{With: r.Liked, LikedAt: r.CreatedAt})
	}
	return page, nil
}

// Received lists who liked identity. onlyNew drops likers identity already
// liked back, i.e. the pair is a match.
func (l *Likes) Received(ctx context.Context, identity string, onlyNew bool, paginationToken *string, limit int) (LikePage, error) {
	if identity == "" {
		return LikePage{}, svcErr.ErrInvalidOperation
	}
	rows, next, err := l.store.ListLikesReceived(ctx, identity, onlyNew, paginationToken, l.limit(limit))
	if err != nil {
		return LikePage{}, svcErr.Storage(err)
	}
	page := LikePage{Likes: make([]LikeView, 0, len(rows)), Next: next}
	for _, r := range rows {
		page.Likes = append(page.Likes, LikeView{With: r.Liker, LikedAt: r.CreatedAt})
	}
	return page, nil
}

func (l *Likes) limit(n int) int {
	if n <= 0 || n > l.pageSize {
		return l.pageSize
	}
	return n
}
