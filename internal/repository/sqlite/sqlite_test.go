package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository"
	"github.com/sakif/itemgraph/internal/repository/repotest"
)

// newTestDB opens a fresh database file inside the test's temp dir.
//
// t.TempDir() is removed automatically when the test finishes, and every test
// gets its own directory, so tests never share tables.
// The `t.Helper()` call makes failures point at the caller's line.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store { return newTestDB(t) })
}

func TestNew_InMemory(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// The pool is pinned to one connection, so a write is visible to the next read.
	it := &model.Item{Name: "memory item"}
	require.NoError(t, db.CreateItem(context.Background(), it))

	items, err := db.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, it.ID, items[0].ID)
}

func TestNew_UnreachablePath(t *testing.T) {
	// A database file inside a directory that does not exist cannot be created.
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnavailable), "error = %v, want ErrUnavailable", err)
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	first, err := New(path)
	require.NoError(t, err)
	it := &model.Item{Name: "survives reopen", Description: "d"}
	require.NoError(t, first.CreateItem(context.Background(), it))
	require.NoError(t, first.Close())

	// Opening again runs migrate() a second time against existing tables.
	second, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	got, err := second.GetItem(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, "survives reopen", got.Name)
}

// TestForeignKeysEnforced writes straight to the table, bypassing the
// endpoint check in CreateRelation, to prove the schema rejects a bad edge too.
func TestForeignKeysEnforced(t *testing.T) {
	db := newTestDB(t)

	_, err := db.conn.ExecContext(context.Background(),
		`INSERT INTO relations (id, source_id, target_id) VALUES ('r1', 'nope', 'nope')`)
	require.Error(t, err, "foreign_keys pragma should reject unknown item ids")
}

func TestUserRoleStoredVerbatim(t *testing.T) {
	db := newTestDB(t)

	// The table does not know about model.Roles; only the service checks it.
	u := &model.User{Username: "carol", Role: model.Role("auditor")}
	require.NoError(t, db.CreateUser(context.Background(), u))

	users, err := db.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.Role("auditor"), users[0].Role)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", dsn("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", dsn("file:a.db?mode=rwc"))
}
