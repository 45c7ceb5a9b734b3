package candidate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
	"github.com/oggyb/muzz-realtime/internal/repository"
	"github.com/oggyb/muzz-realtime/internal/service/candidate"
	"github.com/oggyb/muzz-realtime/internal/service/match"
	"github.com/oggyb/muzz-realtime/internal/testutil"
)

func TestService_ExcludesLikedAndMatched(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)

	for _, p := range []struct {
		name      string
		interests []string
	}{
		{"me", []string{"#geek", "#music"}},
		{"liked", []string{"#geek"}},
		{"matched", []string{"#geek", "#music"}},
		{"fan", []string{"#music"}},
		{"stranger", nil},
	} {
		prof := testutil.Profile(p.name, p.interests...)
		require.NoError(t, database.Create(&prof).Error)
	}

	store := repository.NewStore(database)
	engine := match.NewEngine(store, testutil.Logger())
	_, err := engine.RecordLike(ctx, "me", "liked")
	require.NoError(t, err)
	_, err = engine.RecordLike(ctx, "me", "matched")
	require.NoError(t, err)
	_, err = engine.RecordLike(ctx, "matched", "me")
	require.NoError(t, err)
	// a like towards me does not hide the liker
	_, err = engine.RecordLike(ctx, "fan", "me")
	require.NoError(t, err)

	svc := candidate.NewService(store, testutil.Logger())
	got, err := svc.List(ctx, "me", candidate.Filters{})
	require.NoError(t, err)

	var ids []string
	for _, c := range got {
		ids = append(ids, c.Identity)
	}
	assert.Equal(t, []string{"fan", "stranger"}, ids)
}

func TestService_UnknownRequester(t *testing.T) {
	svc := candidate.NewService(repository.NewStore(testutil.NewDB(t)), testutil.Logger())
	_, err := svc.List(context.Background(), "ghost", candidate.Filters{})
	assert.ErrorIs(t, err, svcErr.ErrUserNotFound)
}
