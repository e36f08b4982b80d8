package redisclient

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Wrap uses an already configured redis client
func Wrap(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func documentKey(collection, id string) string {
	return fmt.Sprintf("doc:%s:%s", collection, id)
}

func indexKey(collection string) string {
	return fmt.Sprintf("docs:%s", collection)
}

// PutDocument stores a document body and indexes it under its collection
func (c *Client) PutDocument(ctx context.Context, collection, id string, body []byte) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(collection, id), body, 0)
		pipe.SAdd(ctx, indexKey(collection), id)
		return nil
	})
	return err
}

// GetDocument returns a document body; found is false when the key is missing
func (c *Client) GetDocument(ctx context.Context, collection, id string) ([]byte, bool, error) {
	body, err := c.rdb.Get(ctx, documentKey(collection, id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// DeleteDocument removes a document and its index entry
func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, documentKey(collection, id))
		pipe.SRem(ctx, indexKey(collection), id)
		return nil
	})
	return err
}

// ListDocuments returns every document body in a collection ordered by id.
// Index entries whose document has expired or vanished are skipped.
func (c *Client) ListDocuments(ctx context.Context, collection string) ([][]byte, error) {
	ids, err := c.rdb.SMembers(ctx, indexKey(collection)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = documentKey(collection, id)
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	bodies := make([][]byte, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		bodies = append(bodies, []byte(s))
	}
	return bodies, nil
}
