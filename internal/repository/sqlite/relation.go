package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
)

// CreateRelation inserts a directed edge between two stored items.
//
// TRANSACTION:
// The endpoint check and the INSERT run in one transaction, so no other
// writer can slip in between "the item exists" and "the edge is stored".
// If either endpoint is unknown the transaction is rolled back and the
// caller gets apperror.ErrReferentialIntegrity; nothing is written.
//
// The FOREIGN KEY constraints on the table would also reject a bad ID, but
// only with a generic constraint error. Checking first lets us say WHICH
// endpoint was wrong.
func (db *DB) CreateRelation(ctx context.Context, rel *model.Relation) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning relation transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op returning sql.ErrTxDone.
	defer tx.Rollback()

	if err := requireItem(ctx, tx, "sourceId", rel.SourceID); err != nil {
		return err
	}
	if err := requireItem(ctx, tx, "targetId", rel.TargetID); err != nil {
		return err
	}

	id := xid.New().String()
	now := time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO relations (id, source_id, target_id, created_at) VALUES (?, ?, ?, ?)`,
		id,
		rel.SourceID,
		rel.TargetID,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting relation %s -> %s: %w", rel.SourceID, rel.TargetID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing relation: %w", err)
	}

	rel.ID = id
	rel.CreatedAt = now
	return nil
}

// requireItem returns a ReferentialIntegrity error when no item has the given ID.
func requireItem(ctx context.Context, tx *sql.Tx, field, itemID string) error {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE id = ?`, itemID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("sqlite: checking item %s: %w", itemID, err)
	}
	if count == 0 {
		return apperror.ReferentialIntegrity(field, itemID)
	}
	return nil
}

// ListRelations returns every relation in insertion order.
func (db *DB) ListRelations(ctx context.Context) ([]model.Relation, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, source_id, target_id, created_at FROM relations ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing relations: %w", err)
	}
	defer rows.Close()

	relations := []model.Relation{}
	for rows.Next() {
		var r model.Relation
		if err := rows.Scan(&r.ID, &r.SourceID, &r.TargetID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning relation row: %w", err)
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating relations: %w", err)
	}

	return relations, nil
}
