package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-realtime/internal/db"
)

// Store groups the repositories that together make up the profile store.
type Store struct {
	Profiles *ProfileRepository
	Likes    *LikeRepository
	Matches  *MatchRepository
	Messages *MessageRepository
}

func NewStore(database *gorm.DB) *Store {
	return &Store{
		Profiles: NewProfileRepository(database),
		Likes:    NewLikeRepository(database),
		Matches:  NewMatchRepository(database),
		Messages: NewMessageRepository(database),
	}
}

// The methods below make Store usable wherever the services need the whole
// profile store behind one interface.

func (s *Store) ProfileExists(ctx context.Context, username string) (bool, error) {
	return s.Profiles.Exists(ctx, username)
}

func (s *Store) InsertLike(ctx context.Context, liker, liked string) (bool, error) {
	return s.Likes.Insert(ctx, liker, liked)
}

func (s *Store) DeleteLike(ctx context.Context, liker, liked string) (bool, error) {
	return s.Likes.Delete(ctx, liker, liked)
}

func (s *Store) HasLike(ctx context.Context, liker, liked string) (bool, error) {
	return s.Likes.Exists(ctx, liker, liked)
}

func (s *Store) CountLikers(ctx context.Context, liked string) (int64, error) {
	return s.Likes.CountLikers(ctx, liked)
}

func (s *Store) InsertMatch(ctx context.Context, a, b string, at time.Time) (bool, error) {
	return s.Matches.Insert(ctx, a, b, at)
}

func (s *Store) DeleteMatch(ctx context.Context, a, b string) (bool, error) {
	return s.Matches.Delete(ctx, a, b)
}

func (s *Store) GetMatch(ctx context.Context, a, b string) (*db.Match, error) {
	return s.Matches.Get(ctx, a, b)
}

func (s *Store) ListMatches(ctx context.Context, identity string) ([]db.Match, error) {
	return s.Matches.ListFor(ctx, identity)
}

func (s *Store) GetProfile(ctx context.Context, username string) (*db.Profile, error) {
	return s.Profiles.Get(ctx, username)
}

func (s *Store) ListProfilesExcept(ctx context.Context, username string) ([]db.Profile, error) {
	return s.Profiles.ListExcept(ctx, username)
}

func (s *Store) LikedBy(ctx context.Context, liker string) ([]string, error) {
	return s.Likes.LikedBy(ctx, liker)
}

func (s *Store) ListLikesSent(ctx context.Context, liker string, paginationToken *string, limit int) ([]db.Like, *string, error) {
	return s.Likes.ListSent(ctx, liker, paginationToken, limit)
}

func (s *Store) ListLikesReceived(ctx context.Context, liked string, onlyNew bool, paginationToken *string, limit int) ([]db.Like, *string, error) {
	return s.Likes.ListReceived(ctx, liked, onlyNew, paginationToken, limit)
}

func (s *Store) CreateMessage(ctx context.Context, m *db.Message) error {
	return s.Messages.Create(ctx, m)
}

func (s *Store) MarkDelivered(ctx context.Context, id uint64) error {
	return s.Messages.MarkDelivered(ctx, id)
}

func (s *Store) ListConversation(ctx context.Context, a, b string, paginationToken *string, limit int) ([]db.Message, *string, error) {
	return s.Messages.ListConversation(ctx, a, b, paginationToken, limit)
}
