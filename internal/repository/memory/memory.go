// Package memory implements the repository interfaces with in-process slices.
//
// Nothing is persisted: the data lives as long as the Store value. This backs
// the demo mode (STORE=memory) and doubles as a fast fake in service tests.
//
// LOCKING:
// Each collection has its own RWMutex. Reads take the read lock and copy the
// slice out, so callers can never mutate stored records. CreateRelation holds
// the items read lock while it checks both endpoints and appends, so an item
// check and the append it guards see the same item set.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	usersMu sync.RWMutex
	users   []model.User

	itemsMu sync.RWMutex
	items   []model.Item
	byID    map[string]int // item ID → index into items

	relationsMu sync.RWMutex
	relations   []model.Relation

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID: make(map[string]int),
		now:  time.Now,
	}
}

// Close is a no-op; it exists to satisfy repository.Store.
func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	user.ID = xid.New().String()
	user.CreatedAt = s.now()
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) CreateItem(_ context.Context, item *model.Item) error {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	item.ID = xid.New().String()
	item.CreatedAt = s.now()
	s.byID[item.ID] = len(s.items)
	s.items = append(s.items, *item)
	return nil
}

func (s *Store) GetItem(_ context.Context, id string) (*model.Item, error) {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, apperror.NotFound("item", id)
	}
	it := s.items[i]
	return &it, nil
}

func (s *Store) ListItems(_ context.Context) ([]model.Item, error) {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()

	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// CreateRelation appends a relation after checking both endpoints.
// Lock order is always items then relations.
func (s *Store) CreateRelation(_ context.Context, rel *model.Relation) error {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()

	if _, ok := s.byID[rel.SourceID]; !ok {
		return apperror.ReferentialIntegrity("sourceId", rel.SourceID)
	}
	if _, ok := s.byID[rel.TargetID]; !ok {
		return apperror.ReferentialIntegrity("targetId", rel.TargetID)
	}

	s.relationsMu.Lock()
	defer s.relationsMu.Unlock()

	rel.ID = xid.New().String()
	rel.CreatedAt = s.now()
	s.relations = append(s.relations, *rel)
	return nil
}

func (s *Store) ListRelations(_ context.Context) ([]model.Relation, error) {
	s.relationsMu.RLock()
	defer s.relationsMu.RUnlock()

	out := make([]model.Relation, len(s.relations))
	copy(out, s.relations)
	return out, nil
}
