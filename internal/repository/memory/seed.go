package memory

import (
	"context"
	"fmt"

	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository"
)

// Seed loads the demo data set into any store: two users, three items and a
// two-edge chain Customer A → Project X → Invoice #123.
//
// It goes through the normal create methods, so IDs and referential checks
// behave exactly as they do for user input.
func Seed(ctx context.Context, store repository.Store) error {
	users := []model.User{
		{Username: "alice", Role: model.RoleAdmin},
		{Username: "bob", Role: model.RoleUser},
	}
	for i := range users {
		if err := store.CreateUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("seeding user %s: %w", users[i].Username, err)
		}
	}

	items := []model.Item{
		{Name: "Customer A", Description: "Top-tier client"},
		{Name: "Project X", Description: "Important initiative"},
		{Name: "Invoice #123", Description: "Pending payment"},
	}
	for i := range items {
		if err := store.CreateItem(ctx, &items[i]); err != nil {
			return fmt.Errorf("seeding item %s: %w", items[i].Name, err)
		}
	}

	links := [][2]int{{0, 1}, {1, 2}}
	for _, l := range links {
		rel := model.Relation{SourceID: items[l[0]].ID, TargetID: items[l[1]].ID}
		if err := store.CreateRelation(ctx, &rel); err != nil {
			return fmt.Errorf("seeding relation %s -> %s: %w", items[l[0]].Name, items[l[1]].Name, err)
		}
	}

	return nil
}
