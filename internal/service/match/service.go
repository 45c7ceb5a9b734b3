package match

import (
	"context"
	"errors"
	"strings"

	"github.com/oggyb/muzz-realtime/internal/app"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	pb "github.com/oggyb/muzz-realtime/internal/proto/matchpb"
)

// Service implements the MatchService gRPC API on top of the Engine.
// It is the entry point for other backend services (the profile CRUD
// service records likes through it).
type Service struct {
	appCtx  *app.AppContext
	engine  *Engine
	counter *LikeCounter
	likes   *Likes

	pb.UnimplementedMatchServiceServer
}

func NewMatchService(appCtx *app.AppContext, engine *Engine, counter *LikeCounter, likes *Likes) *Service {
	return &Service{appCtx: appCtx, engine: engine, counter: counter, likes: likes}
}

// RecordLike records a like and reports the match state.
// A repeated like is not an error on this API: AlreadyLiked is set instead.
//
// Example:
//
//	svc.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "alice", LikedUserId: "bob"})
func (s *Service) RecordLike(ctx context.Context, req *pb.RecordLikeRequest) (*pb.RecordLikeResponse, error) {
	s.appCtx.Logger.Debug("RecordLike called", "liker", req.GetLikerUserId(), "liked", req.GetLikedUserId())

	liker, liked := strings.TrimSpace(req.GetLikerUserId()), strings.TrimSpace(req.GetLikedUserId())
	if liker == "" || liked == "" {
		return nil, svcErr.InvalidArgument("liker_user_id and liked_user_id are required")
	}

	res, err := s.engine.RecordLike(ctx, liker, liked)
	if err != nil && !errors.Is(err, svcErr.ErrAlreadyLiked) {
		s.appCtx.Logger.Error("RecordLike failed", "liker", liker, "liked", liked, "err", err)
		return nil, svcErr.Map(err)
	}

	return &pb.RecordLikeResponse{
		IsMatch:      res.IsMatch,
		AlreadyLiked: res.AlreadyLiked,
		MatchCreated: res.Created,
	}, nil
}

// Unlike withdraws a like. Idempotent.
func (s *Service) Unlike(ctx context.Context, req *pb.UnlikeRequest) (*pb.UnlikeResponse, error) {
	s.appCtx.Logger.Debug("Unlike called", "liker", req.GetLikerUserId(), "liked", req.GetLikedUserId())

	res, err := s.engine.Unlike(ctx, strings.TrimSpace(req.GetLikerUserId()), strings.TrimSpace(req.GetLikedUserId()))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.UnlikeResponse{Removed: res.Removed, Retracted: res.Retracted}, nil
}

// ListMatches returns the user's matches, newest first.
func (s *Service) ListMatches(ctx context.Context, req *pb.ListMatchesRequest) (*pb.ListMatchesResponse, error) {
	user := strings.TrimSpace(req.GetUserId())
	if user == "" {
		return nil, svcErr.InvalidArgument("user_id is required")
	}

	matches, err := s.engine.GetMatches(ctx, user)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.ListMatchesResponse{}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, &pb.ListMatchesResponse_Match{
			UserId:        m.With,
			UnixTimestamp: uint64(m.MatchedAt.UnixMilli()),
		})
	}
	return resp, nil
}

// CountLikedYou returns how many users liked the recipient (cache-first).
func (s *Service) CountLikedYou(ctx context.Context, req *pb.CountLikedYouRequest) (*pb.CountLikedYouResponse, error) {
	recipient := strings.TrimSpace(req.GetRecipientUserId())
	if recipient == "" {
		return nil, svcErr.InvalidArgument("recipient_user_id is required")
	}

	n, err := s.counter.Count(ctx, recipient)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.CountLikedYouResponse{Count: uint64(n)}, nil
}

// ListLikesSent returns the users the requester liked, newest first.
func (s *Service) ListLikesSent(ctx context.Context, req *pb.ListLikesRequest) (*pb.ListLikesResponse, error) {
	user := strings.TrimSpace(req.GetUserId())
	if user == "" {
		return nil, svcErr.InvalidArgument("user_id is required")
	}

	page, err := s.likes.Sent(ctx, user, req.PaginationToken, 0)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return likesResponse(page), nil
}

// ListLikedYou returns everyone who liked the user, matched or not.
func (s *Service) ListLikedYou(ctx context.Context, req *pb.ListLikesRequest) (*pb.ListLikesResponse, error) {
	return s.listReceived(ctx, req, false)
}

// ListNewLikedYou is ListLikedYou without the users already liked back.
func (s *Service) ListNewLikedYou(ctx context.Context, req *pb.ListLikesRequest) (*pb.ListLikesResponse, error) {
	return s.listReceived(ctx, req, true)
}

func (s *Service) listReceived(ctx context.Context, req *pb.ListLikesRequest, onlyNew bool) (*pb.ListLikesResponse, error) {
	user := strings.TrimSpace(req.GetUserId())
	if user == "" {
		return nil, svcErr.InvalidArgument("user_id is required")
	}

	page, err := s.likes.Received(ctx, user, onlyNew, req.PaginationToken, 0)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return likesResponse(page), nil
}

func likesResponse(page LikePage) *pb.ListLikesResponse {
	resp := &pb.ListLikesResponse{NextPaginationToken: page.Next}
	for _, l := range page.Likes {
		resp.Likes = append(resp.Likes, &pb.ListLikesResponse_Like{
			UserId:        l.With,
			UnixTimestamp: uint64(l.LikedAt.UnixMilli()),
		})
	}
	return resp
}
