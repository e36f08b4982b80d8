package store

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-service/internal/redisclient"
)

// Redis stores each document under its own key
type Redis struct {
	client *redisclient.Client
}

// NewRedis wraps a connected redis client
func NewRedis(client *redisclient.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Load(ctx context.Context, collection, id string, dst interface{}) (bool, error) {
	body, found, err := r.client.GetDocument(ctx, collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to load %s/%s: %w", collection, id, err)
	}
	if !found {
		return false, nil
	}
	return true, decode(collection, id, body, dst)
}

func (r *Redis) Save(ctx context.Context, collection, id string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	if err := r.client.PutDocument(ctx, collection, id, body); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	return r.client.DeleteDocument(ctx, collection, id)
}

func (r *Redis) List(ctx context.Context, collection string) ([][]byte, error) {
	bodies, err := r.client.ListDocuments(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return bodies, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
