package redisclient

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := NewClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer c.Close()
	assert.NotNil(t, c.GetClient())
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestDocumentLifecycle(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.PutDocument(ctx, "carts", "u2", []byte(`{"n":2}`)))
	require.NoError(t, c.PutDocument(ctx, "carts", "u1", []byte(`{"n":1}`)))

	body, found, err := c.GetDocument(ctx, "carts", "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"n":1}`, string(body))

	ok, err := mr.SIsMember("docs:carts", "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	bodies, err := c.ListDocuments(ctx, "carts")
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{"n":1}`, string(bodies[0]))

	require.NoError(t, c.DeleteDocument(ctx, "carts", "u1"))
	_, found, err = c.GetDocument(ctx, "carts", "u1")
	require.NoError(t, err)
	assert.False(t, found)

	bodies, err = c.ListDocuments(ctx, "carts")
	require.NoError(t, err)
	assert.Len(t, bodies, 1)
}

func TestListDocumentsSkipsVanishedKeys(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.PutDocument(ctx, "orders", "o1", []byte(`{}`)))
	mr.Del("doc:orders:o1")

	bodies, err := c.ListDocuments(ctx, "orders")
	require.NoError(t, err)
	assert.Empty(t, bodies)
}
