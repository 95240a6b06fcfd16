package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/prediction-market-poc/internal/market-service/repo/testutil"
)

func TestCommentRepo_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDatabase(t)
	p := NewPostgres(db)
	ctx := context.Background()

	alice := testutil.SeedUser(t, db, "alice", "100.00")
	market := testutil.SeedMarket(t, db, "Final", "Furia", "LOUD")

	c, err := p.CreateComment(ctx, market, alice, "Vai dar zebra")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, market, c.MarketID)
	assert.Equal(t, alice, c.UserID)
	assert.Equal(t, "Vai dar zebra", c.Text)
	assert.Equal(t, "alice", c.Username)
	assert.Zero(t, c.LikeCount)
	assert.False(t, c.CreatedAt.IsZero())

	list, err := p.ListCommentsByMarket(ctx, market, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, "Vai dar zebra", list[0].Text)
	assert.Equal(t, "alice", list[0].Username)
	assert.False(t, list[0].Liked)

	_, err = p.CreateComment(ctx, uuid.NewString(), alice, "mercado fantasma")
	assert.ErrorIs(t, err, ErrMarketNotFound)
}

func TestCommentRepo_LikeIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDatabase(t)
	p := NewPostgres(db)
	ctx := context.Background()

	alice := testutil.SeedUser(t, db, "alice", "100.00")
	bob := testutil.SeedUser(t, db, "bob", "100.00")
	market := testutil.SeedMarket(t, db, "Final", "Furia", "LOUD")

	c, err := p.CreateComment(ctx, market, alice, "GG")
	require.NoError(t, err)

	require.NoError(t, p.LikeComment(ctx, c.ID, bob))
	require.NoError(t, p.LikeComment(ctx, c.ID, bob)) // repetido não conta duas vezes

	list, err := p.ListCommentsByMarket(ctx, market, bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].LikeCount)
	assert.True(t, list[0].Liked)

	require.NoError(t, p.UnlikeComment(ctx, c.ID, bob))
	require.NoError(t, p.UnlikeComment(ctx, c.ID, bob))

	list, err = p.ListCommentsByMarket(ctx, market, bob)
	require.NoError(t, err)
	assert.Equal(t, 0, list[0].LikeCount)
	assert.False(t, list[0].Liked)

	assert.ErrorIs(t, p.LikeComment(ctx, uuid.NewString(), bob), ErrCommentNotFound)
}

func TestCommentRepo_DeleteOnlyByAuthor(t *testing.T) {
	db := testutil.SetupTestDatabase(t)
	p := NewPostgres(db)
	ctx := context.Background()

	alice := testutil.SeedUser(t, db, "alice", "100.00")
	bob := testutil.SeedUser(t, db, "bob", "100.00")
	market := testutil.SeedMarket(t, db, "Final", "Furia", "LOUD")

	c, err := p.CreateComment(ctx, market, alice, "apaga isso")
	require.NoError(t, err)
	require.NoError(t, p.LikeComment(ctx, c.ID, bob))

	assert.ErrorIs(t, p.DeleteComment(ctx, c.ID, bob), ErrNotCommentAuthor)

	require.NoError(t, p.DeleteComment(ctx, c.ID, alice))
	list, err := p.ListCommentsByMarket(ctx, market, alice)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, p.DeleteComment(ctx, c.ID, alice), ErrCommentNotFound)
}
