package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository"
)

// ItemService handles business logic for items.
type ItemService struct {
	repo   repository.ItemRepository
	logger *slog.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(repo repository.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		logger: logger,
	}
}

// Add stores a new item.
//
// EMPTY VALUES ARE ALLOWED:
// Unlike a username, an item with a blank name or description is
// accepted. Items are selected by ID everywhere, so a blank label is odd but
// never ambiguous. Only the length limit is enforced, counted in characters
// to match the form's maxlength. The description is stored exactly as given.
func (s *ItemService) Add(ctx context.Context, name, description string) (*model.Item, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("item name must be %d characters or less", MaxItemNameLength))
	}

	item := &model.Item{
		Name:        name,
		Description: description,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.logger.Error("failed to create item",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.logger.Info("item created",
		slog.String("id", item.ID),
		slog.String("name", item.Name),
	)
	return item, nil
}

// Get retrieves an item by its ID.
// Returns apperror.ErrNotFound if the item doesn't exist.
func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}
	return s.repo.GetItem(ctx, id)
}

// List returns every item in the order they were added.
func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		s.logger.Error("failed to list items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}
