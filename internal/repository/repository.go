// Package repository declares the storage contract for users, items and relations.
//
// Two implementations live in subpackages:
//   - sqlite: relational tables, survives restarts
//   - memory: process-lifetime slices, used for the demo mode and as a test fake
//
// Every list returns records in insertion order. Every create assigns the ID
// and CreatedAt on the struct passed in.
package repository

import (
	"context"

	"github.com/sakif/itemgraph/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
}

// RelationRepository stores directed edges between items.
//
// CreateRelation must return an apperror.ErrReferentialIntegrity error, and
// write nothing, when either endpoint is not a stored item.
type RelationRepository interface {
	CreateRelation(ctx context.Context, rel *model.Relation) error
	ListRelations(ctx context.Context) ([]model.Relation, error)
}

// Store bundles the three repositories behind one handle that is passed
// explicitly to everything that needs storage.
type Store interface {
	UserRepository
	ItemRepository
	RelationRepository
	Close() error
}
