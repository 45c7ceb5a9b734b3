package candidate

import (
	"context"
	"log/slog"
	"time"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
)

// Source is the slice of the profile store candidate listing reads.
type Source interface {
	GetProfile(ctx context.Context, username string) (*db.Profile, error)
	ListProfilesExcept(ctx context.Context, username string) ([]db.Profile, error)
	LikedBy(ctx context.Context, liker string) ([]string, error)
	ListMatches(ctx context.Context, identity string) ([]db.Match, error)
}

// Service loads profiles from the store and hands them to Rank.
type Service struct {
	src Source
	log *slog.Logger
	now func() time.Time
}

func NewService(src Source, log *slog.Logger) *Service {
	return &Service{src: src, log: log, now: time.Now}
}

// List returns ranked candidates for requester. Identities the requester
// already liked or matched are excluded on top of f.Exclude.
func (s *Service) List(ctx context.Context, requester string, f Filters) ([]Candidate, error) {
	me, err := s.src.GetProfile(ctx, requester)
	if err != nil {
		return nil, svcErr.Storage(err)
	}

	others, err := s.src.ListProfilesExcept(ctx, requester)
	if err != nil {
		return nil, svcErr.Storage(err)
	}

	exclude := make(map[string]struct{}, len(f.Exclude))
	for k := range f.Exclude {
		exclude[k] = struct{}{}
	}
	liked, err := s.src.LikedBy(ctx, requester)
	if err != nil {
		return nil, svcErr.Storage(err)
	}
	for _, id := range liked {
		exclude[id] = struct{}{}
	}
	matches, err := s.src.ListMatches(ctx, requester)
	if err != nil {
		return nil, svcErr.Storage(err)
	}
	for _, m := range matches {
		exclude[m.UserA] = struct{}{}
		exclude[m.UserB] = struct{}{}
	}
	f.Exclude = exclude

	profiles := make([]Profile, 0, len(others))
	for _, p := range others {
		profiles = append(profiles, FromDB(p))
	}

	out := Rank(FromDB(*me), profiles, f, s.now())
	s.log.Debug("candidates ranked", "requester", requester, "pool", len(profiles), "returned", len(out))
	return out, nil
}
