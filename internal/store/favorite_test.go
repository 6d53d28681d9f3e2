package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrypal/internal/model"
)

func TestFavoriteAddListRemove(t *testing.T) {
	s := NewFavoriteStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, &model.FavoriteRecipe{UserID: "u1", RecipeID: "kheer", AddedAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, s.Add(ctx, &model.FavoriteRecipe{UserID: "u1", RecipeID: "idli", AddedAt: time.Now()}))
	require.NoError(t, s.Add(ctx, &model.FavoriteRecipe{UserID: "u2", RecipeID: "idli", AddedAt: time.Now()}))

	ids, err := s.ListIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"idli", "kheer"}, ids, "most recent first")

	fav, err := s.IsFavorite(ctx, "u1", "kheer")
	require.NoError(t, err)
	assert.True(t, fav)

	require.NoError(t, s.Remove(ctx, "u1", "kheer"))
	fav, err = s.IsFavorite(ctx, "u1", "kheer")
	require.NoError(t, err)
	assert.False(t, fav)

	// Removing again is a no-op, and u2's favorite is untouched.
	require.NoError(t, s.Remove(ctx, "u1", "kheer"))
	fav, err = s.IsFavorite(ctx, "u2", "idli")
	require.NoError(t, err)
	assert.True(t, fav)
}

func TestFavoriteAddIsUpsert(t *testing.T) {
	s := NewFavoriteStore(newTestDB(t))
	ctx := context.Background()

	first := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	require.NoError(t, s.Add(ctx, &model.FavoriteRecipe{UserID: "u1", RecipeID: "idli", AddedAt: first}))
	require.NoError(t, s.Add(ctx, &model.FavoriteRecipe{UserID: "u1", RecipeID: "idli", AddedAt: second}))

	favs, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.True(t, second.Equal(favs[0].AddedAt))
}

func TestFavoriteWatch(t *testing.T) {
	s := NewFavoriteStore(newTestDB(t))
	ctx := context.Background()

	view := s.Watch("u1")
	defer view.Cancel()

	ids := <-view.Updates()
	assert.Empty(t, ids)

	require.NoError(t, s.Add(ctx, &model.FavoriteRecipe{UserID: "u1", RecipeID: "idli"}))
	ids = waitForSnapshot(t, view.Updates(), func(got []string) bool {
		return len(got) == 1
	})
	assert.Equal(t, []string{"idli"}, ids)
}
