package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
)

// CreateItem inserts a new item and fills in item.ID and item.CreatedAt.
// Empty names and descriptions are stored as-is.
func (db *DB) CreateItem(ctx context.Context, item *model.Item) error {
	id := xid.New().String()
	now := time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO items (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		id,
		item.Name,
		item.Description,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting item %q: %w", item.Name, err)
	}

	item.ID = id
	item.CreatedAt = now
	return nil
}

// GetItem retrieves a single item by its ID.
// Returns apperror.ErrNotFound if no item exists with that ID.
func (db *DB) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM items WHERE id = ?`,
		id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("item", id)
		}
		return nil, fmt.Errorf("sqlite: getting item %s: %w", id, err)
	}
	return &it, nil
}

// ListItems returns every item in insertion order.
func (db *DB) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM items ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}

	return items, nil
}
