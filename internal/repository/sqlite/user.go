package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/itemgraph/internal/model"
)

// CreateUser inserts a new user row and fills in user.ID and user.CreatedAt.
//
// The role is written as given. Checking it against model.Roles is the
// service's job; the table accepts any string.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	id := xid.New().String()
	now := time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, role, created_at) VALUES (?, ?, ?, ?)`,
		id,
		user.Username,
		string(user.Role),
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	// Only touch the caller's struct once the row is committed,
	// so a failed insert leaves it exactly as it was.
	user.ID = id
	user.CreatedAt = now
	return nil
}

// ListUsers returns every user in insertion order.
//
// ORDER BY rowid:
// Tables declared with a TEXT primary key still get SQLite's hidden integer
// rowid, assigned in increasing order on insert. Sorting by it gives
// insertion order without an extra column.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, role, created_at FROM users ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		u.Role = model.Role(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}
