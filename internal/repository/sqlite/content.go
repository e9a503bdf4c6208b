package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/repository"
)

// Compile-time check that *DB satisfies the repository contract.
var _ repository.ContentRepository = (*DB)(nil)

// Get loads the record stored under key.
//
// The JSON is decoded without any validation: fields the document lacks stay
// empty and fields the struct lacks are dropped. A document that is not JSON
// at all is the one case reported as an error.
func (db *DB) Get(ctx context.Context, key string) (*model.Content, error) {
	var data string
	err := db.conn.QueryRowContext(ctx,
		`SELECT data FROM template_content WHERE key = ?`,
		key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("template content", key)
		}
		return nil, fmt.Errorf("sqlite: getting content %s: %w", key, err)
	}

	var content model.Content
	if err := json.Unmarshal([]byte(data), &content); err != nil {
		return nil, fmt.Errorf("sqlite: decoding content %s: %w", key, err)
	}
	return &content, nil
}

// Put writes content under key, replacing any previous record.
//
// UPSERT:
// INSERT ... ON CONFLICT(key) DO UPDATE is a single statement, so two saves
// racing on the same key simply leave whichever committed last.
func (db *DB) Put(ctx context.Context, key string, content *model.Content) error {
	if content == nil {
		return fmt.Errorf("sqlite: putting content %s: nil content", key)
	}

	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("sqlite: encoding content %s: %w", key, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO template_content (key, data, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key,
		string(data),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting content %s: %w", key, err)
	}
	return nil
}

// List returns every stored key, most recently updated first.
// Keys that do not belong to a known template kind are skipped.
func (db *DB) List(ctx context.Context) ([]model.Entry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT key, updated_at FROM template_content ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing content: %w", err)
	}
	defer rows.Close()

	entries := make([]model.Entry, 0, len(model.Kinds()))
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.Key, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning content row: %w", err)
		}
		kind, ok := model.KindFromStorageKey(e.Key)
		if !ok {
			continue
		}
		e.Kind = kind
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating content: %w", err)
	}

	return entries, nil
}
