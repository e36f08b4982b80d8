package service

import (
	"errors"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistToggle(t *testing.T) {
	env := newTestEnv(t)

	member, err := env.wishlist.Toggle(env.ctx, "u1", "milk")
	require.NoError(t, err)
	assert.True(t, member)
	assert.True(t, env.wishlist.Contains(env.ctx, "u1", "milk"))

	member, err = env.wishlist.Toggle(env.ctx, "u1", "milk")
	require.NoError(t, err)
	assert.False(t, member)
	assert.False(t, env.wishlist.Contains(env.ctx, "u1", "milk"))

	_, err = env.wishlist.Toggle(env.ctx, "u1", "caviar")
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestWishlistAddIsUnique(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wishlist.Add(env.ctx, "u1", "rice")
	require.NoError(t, err)
	_, err = env.wishlist.Add(env.ctx, "u1", "milk")
	require.NoError(t, err)
	items, err := env.wishlist.Add(env.ctx, "u1", "rice")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "rice", items[0].ID)
	assert.Equal(t, "milk", items[1].ID)

	items = env.wishlist.Remove(env.ctx, "u1", "rice")
	require.Len(t, items, 1)

	env.wishlist.Clear(env.ctx, "u1")
	assert.Empty(t, env.wishlist.Items(env.ctx, "u1"))
}

func TestWishlistRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{"chips", "rice"} {
		_, err := env.wishlist.Add(env.ctx, "u1", id)
		require.NoError(t, err)
	}
	env.writer.Flush()

	fresh := NewWishlistService(env.store, env.writer, env.events, env.catalog, env.clock)
	var ids []string
	for _, p := range fresh.Items(env.ctx, "u1") {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"chips", "rice"}, ids)

	updates := env.events.OfType(models.EventTypeWishlistUpdated)
	require.Len(t, updates, 2)
	assert.Equal(t, []string{"chips", "rice"}, updates[1].(*models.WishlistUpdatedEvent).ProductIDs)
}
