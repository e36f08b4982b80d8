package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Postgres stores documents as JSONB rows keyed by (collection, id)
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres connects to the database
func NewPostgres(databaseURL string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// NewPostgresFromDB wraps an existing connection
func NewPostgresFromDB(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Close closes the database connection
func (p *Postgres) Close() error {
	return p.db.Close()
}

// GetDB returns the underlying database connection
func (p *Postgres) GetDB() *sqlx.DB {
	return p.db
}

// Load reads one document into dst
func (p *Postgres) Load(ctx context.Context, collection, id string, dst interface{}) (bool, error) {
	var body []byte
	err := p.db.GetContext(ctx, &body,
		"SELECT body FROM documents WHERE collection = $1 AND id = $2", collection, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s/%s: %w", collection, id, err)
	}
	return true, decode(collection, id, body, dst)
}

// Save upserts one document
func (p *Postgres) Save(ctx context.Context, collection, id string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}

	query := `
		INSERT INTO documents (collection, id, body, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id) DO UPDATE
		SET body = EXCLUDED.body, updated_at = NOW()`

	if _, err := p.db.ExecContext(ctx, query, collection, id, string(body)); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes one document
func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	_, err := p.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = $1 AND id = $2", collection, id)
	return err
}

// List returns every document body in a collection ordered by id
func (p *Postgres) List(ctx context.Context, collection string) ([][]byte, error) {
	var bodies [][]byte
	err := p.db.SelectContext(ctx, &bodies,
		"SELECT body FROM documents WHERE collection = $1 ORDER BY id", collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return bodies, nil
}
