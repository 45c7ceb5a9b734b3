package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
)

func TestStorage_Normalizes(t *testing.T) {
	assert.NoError(t, svcErr.Storage(nil))

	err := svcErr.Storage(fmt.Errorf("insert like: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, svcErr.ErrTimeout)
	assert.True(t, svcErr.Retryable(err))

	err = svcErr.Storage(errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, svcErr.ErrStorageUnavailable)
	assert.True(t, svcErr.Retryable(err))

	// domain errors are never re-classified
	err = svcErr.Storage(svcErr.ErrNotMatched)
	assert.ErrorIs(t, err, svcErr.ErrNotMatched)
	assert.False(t, svcErr.Retryable(err))
}

func TestCode(t *testing.T) {
	cases := map[error]string{
		svcErr.ErrInvalidOperation:   "invalid_operation",
		svcErr.ErrAlreadyLiked:       "already_liked",
		svcErr.ErrNotMatched:         "not_matched",
		svcErr.ErrEmptyMessage:       "empty_message",
		svcErr.ErrUserNotFound:       "user_not_found",
		svcErr.ErrTimeout:            "timeout",
		svcErr.ErrStorageUnavailable: "storage_unavailable",
		errors.New("boom"):           "internal",
	}
	for err, want := range cases {
		assert.Equal(t, want, svcErr.Code(fmt.Errorf("wrapped: %w", err)))
	}
}

func TestMap(t *testing.T) {
	assert.Nil(t, svcErr.Map(nil))
	assert.Equal(t, codes.AlreadyExists, status.Code(svcErr.Map(svcErr.ErrAlreadyLiked)))
	assert.Equal(t, codes.FailedPrecondition, status.Code(svcErr.Map(svcErr.ErrNotMatched)))
	assert.Equal(t, codes.InvalidArgument, status.Code(svcErr.Map(svcErr.ErrInvalidOperation)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(svcErr.Map(svcErr.ErrTimeout)))
	assert.Equal(t, codes.Unavailable, status.Code(svcErr.Map(svcErr.ErrStorageUnavailable)))
	assert.Equal(t, codes.NotFound, status.Code(svcErr.Map(svcErr.ErrUserNotFound)))

	// already a status → untouched
	in := svcErr.InvalidArgument("bad")
	assert.Equal(t, in, svcErr.Map(in))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, svcErr.HTTPStatus(svcErr.ErrAlreadyLiked))
	assert.Equal(t, http.StatusForbidden, svcErr.HTTPStatus(svcErr.ErrNotMatched))
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus(svcErr.ErrEmptyMessage))
	assert.Equal(t, http.StatusGatewayTimeout, svcErr.HTTPStatus(svcErr.ErrTimeout))
	assert.Equal(t, http.StatusInternalServerError, svcErr.HTTPStatus(errors.New("x")))
}
