// Package repotest holds the behaviour every repository.Store must show.
// Each store package runs it from its own tests:
//
//	func TestStoreContract(t *testing.T) {
//	    repotest.Run(t, func(t *testing.T) repository.Store { return newTestDB(t) })
//	}
package repotest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository"
)

// Factory returns a fresh, empty store. It should register its own cleanup.
type Factory func(t *testing.T) repository.Store

// Run executes the shared store tests as subtests of t.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"ItemsInCallOrder", testItemsInCallOrder},
		{"EmptyItemFieldsAccepted", testEmptyItemFieldsAccepted},
		{"GetItem", testGetItem},
		{"GetItemNotFound", testGetItemNotFound},
		{"UsersInCallOrder", testUsersInCallOrder},
		{"RelationKeepsEndpoints", testRelationKeepsEndpoints},
		{"RelationUnknownSource", testRelationUnknownSource},
		{"RelationUnknownTarget", testRelationUnknownTarget},
		{"SelfLoopAndParallelEdges", testSelfLoopAndParallelEdges},
		{"ReadsAreRepeatable", testReadsAreRepeatable},
		{"EmptyListsAreNotNil", testEmptyListsAreNotNil},
		{"ConcurrentWriters", testConcurrentWriters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func addItem(t *testing.T, s repository.Store, name, desc string) model.Item {
	t.Helper()
	it := model.Item{Name: name, Description: desc}
	require.NoError(t, s.CreateItem(context.Background(), &it))
	require.NotEmpty(t, it.ID)
	return it
}

func testItemsInCallOrder(t *testing.T, s repository.Store) {
	names := []string{"Customer", "Project", "Invoice", "Customer"}
	want := make([]model.Item, 0, len(names))
	for _, n := range names {
		want = append(want, addItem(t, s, n, n+" description"))
	}

	got, err := s.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(want))

	seen := map[string]bool{}
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID, "item %d", i)
		assert.Equal(t, want[i].Name, got[i].Name, "item %d", i)
		assert.Equal(t, want[i].Description, got[i].Description, "item %d", i)
		assert.False(t, seen[got[i].ID], "duplicate id %s", got[i].ID)
		seen[got[i].ID] = true
	}
}

func testEmptyItemFieldsAccepted(t *testing.T, s repository.Store) {
	it := addItem(t, s, "", "")

	got, err := s.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, it.ID, got[0].ID)
	assert.Empty(t, got[0].Name)
}

func testGetItem(t *testing.T, s repository.Store) {
	it := addItem(t, s, "fetch me", "x")

	got, err := s.GetItem(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, "fetch me", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
}

func testGetItemNotFound(t *testing.T, s repository.Store) {
	_, err := s.GetItem(context.Background(), "nonexistent-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v, want ErrNotFound", err)
}

func testUsersInCallOrder(t *testing.T, s repository.Store) {
	ctx := context.Background()
	alice := model.User{Username: "alice", Role: model.RoleAdmin}
	bob := model.User{Username: "bob", Role: model.RoleUser}
	require.NoError(t, s.CreateUser(ctx, &alice))
	require.NoError(t, s.CreateUser(ctx, &bob))
	assert.NotEqual(t, alice.ID, bob.ID)

	got, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, alice.ID, got[0].ID)
	assert.Equal(t, model.RoleAdmin, got[0].Role)
	assert.Equal(t, "bob", got[1].Username)
	assert.Equal(t, model.RoleUser, got[1].Role)
}

func testRelationKeepsEndpoints(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := addItem(t, s, "Customer", "")
	b := addItem(t, s, "Project", "")

	rel := model.Relation{SourceID: a.ID, TargetID: b.ID}
	require.NoError(t, s.CreateRelation(ctx, &rel))
	require.NotEmpty(t, rel.ID)

	got, err := s.ListRelations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rel.ID, got[0].ID)
	assert.Equal(t, a.ID, got[0].SourceID)
	assert.Equal(t, b.ID, got[0].TargetID)
}

func testRelationUnknownSource(t *testing.T, s repository.Store) {
	ctx := context.Background()
	b := addItem(t, s, "Project", "")
	existing := model.Relation{SourceID: b.ID, TargetID: b.ID}
	require.NoError(t, s.CreateRelation(ctx, &existing))

	rel := model.Relation{SourceID: "missing", TargetID: b.ID}
	err := s.CreateRelation(ctx, &rel)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrReferentialIntegrity), "error = %v", err)
	assert.Empty(t, rel.ID, "failed create must not assign an ID")

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "sourceId", appErr.Field)

	got, err := s.ListRelations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "relations must be unchanged after a failed create")
	assert.Equal(t, existing.ID, got[0].ID)
}

func testRelationUnknownTarget(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := addItem(t, s, "Customer", "")

	rel := model.Relation{SourceID: a.ID, TargetID: "missing"}
	err := s.CreateRelation(ctx, &rel)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrReferentialIntegrity), "error = %v", err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "targetId", appErr.Field)

	got, err := s.ListRelations(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testSelfLoopAndParallelEdges(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := addItem(t, s, "A", "")
	b := addItem(t, s, "B", "")

	loop := model.Relation{SourceID: a.ID, TargetID: a.ID}
	first := model.Relation{SourceID: a.ID, TargetID: b.ID}
	second := model.Relation{SourceID: a.ID, TargetID: b.ID}
	for _, r := range []*model.Relation{&loop, &first, &second} {
		require.NoError(t, s.CreateRelation(ctx, r))
	}

	got, err := s.ListRelations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, loop.ID, got[0].ID)
	assert.Equal(t, a.ID, got[0].SourceID)
	assert.Equal(t, a.ID, got[0].TargetID)
	assert.NotEqual(t, got[1].ID, got[2].ID)
}

func testReadsAreRepeatable(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := addItem(t, s, "A", "")
	b := addItem(t, s, "B", "")
	rel := model.Relation{SourceID: a.ID, TargetID: b.ID}
	require.NoError(t, s.CreateRelation(ctx, &rel))

	items1, err := s.ListItems(ctx)
	require.NoError(t, err)
	items2, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, items1, items2)

	rels1, err := s.ListRelations(ctx)
	require.NoError(t, err)
	rels2, err := s.ListRelations(ctx)
	require.NoError(t, err)
	assert.Equal(t, rels1, rels2)
}

func testEmptyListsAreNotNil(t *testing.T, s repository.Store) {
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)

	rels, err := s.ListRelations(ctx)
	require.NoError(t, err)
	assert.NotNil(t, rels)
}

// testConcurrentWriters mixes relation and item writers the way concurrent
// HTTP requests do. Every write must succeed; none may fail with a lock error.
func testConcurrentWriters(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := addItem(t, s, "A", "")

	const writers, perWriter = 16, 10
	errs := make(chan error, 2*writers*perWriter)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				rel := model.Relation{SourceID: a.ID, TargetID: a.ID}
				if err := s.CreateRelation(ctx, &rel); err != nil {
					errs <- err
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				it := model.Item{Name: "filler"}
				if err := s.CreateItem(ctx, &it); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}

	rels, err := s.ListRelations(ctx)
	require.NoError(t, err)
	assert.Len(t, rels, writers*perWriter)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1+writers*perWriter)
}
