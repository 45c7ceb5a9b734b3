// Package api serves the REST surface next to the websocket gateway:
// candidate listing, likes, matches, history and presence.
package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/oggyb/muzz-realtime/internal/auth"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/service/candidate"
	"github.com/oggyb/muzz-realtime/internal/service/chat"
	"github.com/oggyb/muzz-realtime/internal/service/match"
)

// OnlineLister answers who is online right now.
type OnlineLister interface {
	Online(ctx context.Context) []string
}

// Handlers contains the HTTP handlers. Every route expects auth.Middleware
// to have run.
type Handlers struct {
	candidates *candidate.Service
	engine     *match.Engine
	counter    *match.LikeCounter
	likes      *match.Likes
	chat       *chat.Router
	presence   OnlineLister
	log        *slog.Logger
}

func NewHandlers(candidates *candidate.Service, engine *match.Engine, counter *match.LikeCounter, likes *match.Likes, router *chat.Router, presence OnlineLister, log *slog.Logger) *Handlers {
	return &Handlers{
		candidates: candidates,
		engine:     engine,
		counter:    counter,
		likes:      likes,
		chat:       router,
		presence:   presence,
		log:        log,
	}
}

func (h *Handlers) RegisterRoutes(r fiber.Router) {
	r.Get("/candidates", h.Candidates)
	r.Post("/likes", h.Like)
	r.Delete("/likes/:identity", h.Unlike)
	r.Get("/likes/sent", h.LikesSent)
	r.Get("/likes/received", h.LikesReceived)
	r.Get("/likes/received/count", h.LikedYouCount)
	r.Get("/matches", h.Matches)
	r.Get("/messages/:withIdentity", h.History)
	r.Get("/presence", h.Presence)
}

// Candidates lists ranked profiles for the caller.
//
// Query: min_age, max_age, max_distance_km, interests (comma separated).
func (h *Handlers) Candidates(c *fiber.Ctx) error {
	f := candidate.Filters{
		MinAge:        c.QueryInt("min_age", 0),
		MaxAge:        c.QueryInt("max_age", 0),
		MaxDistanceKm: c.QueryInt("max_distance_km", 0),
	}
	if f.MinAge < 0 || f.MaxAge < 0 || f.MaxDistanceKm < 0 || (f.MaxAge > 0 && f.MinAge > f.MaxAge) {
		return badRequest(c, "invalid age or distance filter")
	}
	if raw := c.Query("interests"); raw != "" {
		for _, i := range strings.Split(raw, ",") {
			if i = strings.TrimSpace(i); i != "" {
				f.Interests = append(f.Interests, i)
			}
		}
	}

	list, err := h.candidates.List(c.UserContext(), auth.IdentityFrom(c), f)
	if err != nil {
		return h.fail(c, err)
	}

	resp := CandidatesResponse{Candidates: make([]CandidateResponse, 0, len(list))}
	for _, cand := range list {
		interests := cand.Interests
		if interests == nil {
			interests = []string{}
		}
		resp.Candidates = append(resp.Candidates, CandidateResponse{
			Identity:   cand.Identity,
			FirstName:  cand.FirstName,
			Gender:     cand.Gender,
			Interests:  interests,
			Score:      cand.Score,
			Age:        cand.Age,
			DistanceKm: cand.DistanceKm,
		})
	}
	return c.JSON(resp)
}

// Like records a like from the caller. Liking twice is not an error; the
// response says alreadyLiked.
func (h *Handlers) Like(c *fiber.Ctx) error {
	var req LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Liked == "" {
		return badRequest(c, "liked is required")
	}

	res, err := h.engine.RecordLike(c.UserContext(), auth.IdentityFrom(c), req.Liked)
	if err != nil && !errors.Is(err, svcErr.ErrAlreadyLiked) {
		return h.fail(c, err)
	}

	status := fiber.StatusCreated
	if res.AlreadyLiked {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(LikeResponse{
		Liked:        req.Liked,
		IsMatch:      res.IsMatch,
		AlreadyLiked: res.AlreadyLiked,
	})
}

func (h *Handlers) Unlike(c *fiber.Ctx) error {
	liked := c.Params("identity")
	res, err := h.engine.Unlike(c.UserContext(), auth.IdentityFrom(c), liked)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(UnlikeResponse{Liked: liked, Removed: res.Removed, Retracted: res.Retracted})
}

// LikesSent lists who the caller liked, newest first.
//
// Query: cursor, limit.
func (h *Handlers) LikesSent(c *fiber.Ctx) error {
	page, err := h.likes.Sent(c.UserContext(), auth.IdentityFrom(c), cursorParam(c), c.QueryInt("limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(likesResponse(page))
}

// LikesReceived lists who liked the caller. With new=true, likers the caller
// already liked back are left out.
//
// Query: new, cursor, limit.
func (h *Handlers) LikesReceived(c *fiber.Ctx) error {
	page, err := h.likes.Received(c.UserContext(), auth.IdentityFrom(c), c.QueryBool("new", false), cursorParam(c), c.QueryInt("limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(likesResponse(page))
}

func likesResponse(page match.LikePage) LikesResponse {
	resp := LikesResponse{Likes: make([]LikeEntry, 0, len(page.Likes)), Next: page.Next}
	for _, l := range page.Likes {
		resp.Likes = append(resp.Likes, LikeEntry{Identity: l.With, LikedAt: l.LikedAt.UnixMilli()})
	}
	return resp
}

func (h *Handlers) LikedYouCount(c *fiber.Ctx) error {
	n, err := h.counter.Count(c.UserContext(), auth.IdentityFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(CountResponse{Count: n})
}

func (h *Handlers) Matches(c *fiber.Ctx) error {
	views, err := h.engine.GetMatches(c.UserContext(), auth.IdentityFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	resp := MatchesResponse{Matches: make([]MatchResponse, 0, len(views))}
	for _, v := range views {
		resp.Matches = append(resp.Matches, MatchResponse{With: v.With, MatchedAt: v.MatchedAt.UnixMilli()})
	}
	return c.JSON(resp)
}

// History pages through the conversation with :withIdentity, newest first.
//
// Query: cursor (from the previous page's next), limit.
func (h *Handlers) History(c *fiber.Ctx) error {
	page, err := h.chat.History(c.UserContext(), auth.IdentityFrom(c), c.Params("withIdentity"), cursorParam(c), c.QueryInt("limit", 0))
	if err != nil {
		return h.fail(c, err)
	}

	resp := HistoryResponse{Messages: make([]MessageResponse, 0, len(page.Messages)), Next: page.Next}
	for _, m := range page.Messages {
		resp.Messages = append(resp.Messages, MessageResponse{
			ID:        m.ID,
			Sender:    m.Sender,
			Recipient: m.Recipient,
			Body:      m.Body,
			Timestamp: m.CreatedAt.UnixMilli(),
			Delivered: m.Delivered,
		})
	}
	return c.JSON(resp)
}

func (h *Handlers) Presence(c *fiber.Ctx) error {
	online := h.presence.Online(c.UserContext())
	if online == nil {
		online = []string{}
	}
	return c.JSON(PresenceResponse{Online: online})
}

func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	status := svcErr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:     svcErr.Code(err),
		Message:   err.Error(),
		Retryable: svcErr.Retryable(err),
	})
}

func cursorParam(c *fiber.Ctx) *string {
	if tok := c.Query("cursor"); tok != "" {
		return &tok
	}
	return nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "bad_request", Message: msg})
}
