package match_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/oggyb/muzz-realtime/internal/app"
	"github.com/oggyb/muzz-realtime/internal/config"
	pb "github.com/oggyb/muzz-realtime/internal/proto/matchpb"
	"github.com/oggyb/muzz-realtime/internal/service/match"
	"github.com/oggyb/muzz-realtime/internal/testutil"
)

// setupClient serves the Match service over an in-memory listener and
// returns a client speaking the JSON codec.
func setupClient(t *testing.T) (pb.MatchServiceClient, *app.AppContext) {
	t.Helper()

	database := testutil.NewDB(t)
	testutil.SeedProfiles(t, database, "user1", "user2", "user3")
	rc, _ := testutil.NewRedis(t)

	appCtx := app.New(config.New(), database, rc, testutil.Logger())
	counter := match.NewLikeCounter(appCtx.Store, rc, appCtx.Logger)
	engine := match.NewEngine(appCtx.Store, appCtx.Logger, match.WithLikeObserver(counter))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	match.NewRegistrar(match.NewMatchService(appCtx, engine, counter, match.NewLikes(appCtx.Store, 2))).Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return pb.NewMatchServiceClient(conn), appCtx
}

func TestService_RecordLikeAndListMatches(t *testing.T) {
	ctx := context.Background()
	client, _ := setupClient(t)

	resp, err := client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user1", LikedUserId: "user2"})
	require.NoError(t, err)
	assert.False(t, resp.GetIsMatch())

	resp, err = client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user2", LikedUserId: "user1"})
	require.NoError(t, err)
	assert.True(t, resp.GetIsMatch())
	assert.True(t, resp.MatchCreated)

	// repeated like is reported, not failed
	resp, err = client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user2", LikedUserId: "user1"})
	require.NoError(t, err)
	assert.True(t, resp.GetAlreadyLiked())
	assert.True(t, resp.GetIsMatch())

	list, err := client.ListMatches(ctx, &pb.ListMatchesRequest{UserId: "user1"})
	require.NoError(t, err)
	require.Len(t, list.GetMatches(), 1)
	assert.Equal(t, "user2", list.GetMatches()[0].UserId)
	assert.NotZero(t, list.GetMatches()[0].UnixTimestamp)

	un, err := client.Unlike(ctx, &pb.UnlikeRequest{LikerUserId: "user1", LikedUserId: "user2"})
	require.NoError(t, err)
	assert.True(t, un.Removed)
	assert.True(t, un.Retracted)

	list, err = client.ListMatches(ctx, &pb.ListMatchesRequest{UserId: "user2"})
	require.NoError(t, err)
	assert.Empty(t, list.GetMatches())
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	client, _ := setupClient(t)

	_, err := client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user1", LikedUserId: "user1"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user1", LikedUserId: "ghost"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user1"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListMatches(ctx, &pb.ListMatchesRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.CountLikedYou(ctx, &pb.CountLikedYouRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestService_ListLikes(t *testing.T) {
	ctx := context.Background()
	client, _ := setupClient(t)

	for _, liked := range []string{"user2", "user3"} {
		_, err := client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user1", LikedUserId: liked})
		require.NoError(t, err)
	}
	_, err := client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user2", LikedUserId: "user1"})
	require.NoError(t, err)
	_, err = client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user2", LikedUserId: "user3"})
	require.NoError(t, err)

	sent, err := client.ListLikesSent(ctx, &pb.ListLikesRequest{UserId: "user1"})
	require.NoError(t, err)
	var got []string
	for _, l := range sent.GetLikes() {
		got = append(got, l.UserId)
		assert.NotZero(t, l.UnixTimestamp)
	}
	assert.ElementsMatch(t, []string{"user2", "user3"}, got)

	// user3 was liked by user1 and user2 and liked no one back
	all, err := client.ListLikedYou(ctx, &pb.ListLikesRequest{UserId: "user3"})
	require.NoError(t, err)
	assert.Len(t, all.GetLikes(), 2)

	// user1 and user2 are matched, so user2 is not new for user1
	fresh, err := client.ListNewLikedYou(ctx, &pb.ListLikesRequest{UserId: "user1"})
	require.NoError(t, err)
	assert.Empty(t, fresh.GetLikes())

	fresh, err = client.ListNewLikedYou(ctx, &pb.ListLikesRequest{UserId: "user3"})
	require.NoError(t, err)
	assert.Len(t, fresh.GetLikes(), 2)
}

func TestService_ListLikes_Paginates(t *testing.T) {
	ctx := context.Background()
	client, appCtx := setupClient(t)
	testutil.SeedProfiles(t, appCtx.DB, "user4", "user5")

	for _, liked := range []string{"user2", "user3", "user4", "user5"} {
		_, err := client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user1", LikedUserId: liked})
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	req := &pb.ListLikesRequest{UserId: "user1"}
	pages := 0
	for {
		resp, err := client.ListLikesSent(ctx, req)
		require.NoError(t, err)
		pages++
		assert.LessOrEqual(t, len(resp.GetLikes()), 2)
		for _, l := range resp.GetLikes() {
			assert.False(t, seen[l.UserId], "duplicate %s", l.UserId)
			seen[l.UserId] = true
		}
		if resp.NextPaginationToken == nil {
			break
		}
		req.PaginationToken = resp.NextPaginationToken
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 2, pages)
}

func TestService_ListLikes_Errors(t *testing.T) {
	ctx := context.Background()
	client, _ := setupClient(t)

	_, err := client.ListLikesSent(ctx, &pb.ListLikesRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	bad := "not-a-token"
	_, err = client.ListLikedYou(ctx, &pb.ListLikesRequest{UserId: "user1", PaginationToken: &bad})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestService_CountLikedYou_CacheInvalidation(t *testing.T) {
	ctx := context.Background()
	client, appCtx := setupClient(t)

	count, err := client.CountLikedYou(ctx, &pb.CountLikedYouRequest{RecipientUserId: "user3"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count.GetCount())

	// the zero is now cached
	n, ok, err := appCtx.RedisCache.GetLikeCount(ctx, "user3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), n)

	_, err = client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user1", LikedUserId: "user3"})
	require.NoError(t, err)
	_, err = client.RecordLike(ctx, &pb.RecordLikeRequest{LikerUserId: "user2", LikedUserId: "user3"})
	require.NoError(t, err)

	count, err = client.CountLikedYou(ctx, &pb.CountLikedYouRequest{RecipientUserId: "user3"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count.GetCount())

	_, err = client.Unlike(ctx, &pb.UnlikeRequest{LikerUserId: "user2", LikedUserId: "user3"})
	require.NoError(t, err)

	count, err = client.CountLikedYou(ctx, &pb.CountLikedYouRequest{RecipientUserId: "user3"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count.GetCount())
}

func TestLikeCounter_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	counter := match.NewLikeCounter(f.store, nil, testutil.Logger())

	_, err := f.engine.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)

	n, err := counter.Count(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counter.LikesChanged(ctx, "bob") // no-op without a cache
}
