package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
)

func TestCreateComment_Broadcasts(t *testing.T) {
	comments := &fakeCommentStore{
		createFn: func(ctx context.Context, mktID, uID, text string) (*model.Comment, error) {
			return &model.Comment{
				ID:        "c1",
				MarketID:  mktID,
				UserID:    uID,
				Username:  "alice",
				Text:      text,
				CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	bc := &fakeBroadcast{}
	srv := newTestServer(nil, nil, comments, nil, bc)

	rec := postJSON(t, srv.Router(), "/v1/comments", map[string]string{
		"userId":   "u1",
		"marketId": marketID,
		"text":     "vai dar bom",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, bc.comments, 1)
	assert.Equal(t, "c1", bc.comments[0].CommentID)
	assert.Equal(t, marketID, bc.comments[0].MarketID)
	assert.Equal(t, "alice", bc.comments[0].User)
	assert.Equal(t, "2026-03-01T12:00:00Z", bc.comments[0].CreatedAt)
}

func TestCreateComment_MissingTextRejected(t *testing.T) {
	called := false
	comments := &fakeCommentStore{
		createFn: func(ctx context.Context, mktID, uID, text string) (*model.Comment, error) {
			called = true
			return nil, nil
		},
	}
	bc := &fakeBroadcast{}
	srv := newTestServer(nil, nil, comments, nil, bc)

	rec := postJSON(t, srv.Router(), "/v1/comments", map[string]string{
		"userId":   "u1",
		"marketId": marketID,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
	assert.Empty(t, bc.comments)
}

func TestLikeComment_RequiresUser(t *testing.T) {
	srv := newTestServer(nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/comments/c1/like", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
