package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/projection"
	"github.com/sakif/itemgraph/internal/repository"
)

// ReportService reads the current items and relations and runs the projectors.
// It holds no state of its own; every call reflects the store as it is now.
type ReportService struct {
	items     repository.ItemRepository
	relations repository.RelationRepository
	logger    *slog.Logger
}

func NewReportService(items repository.ItemRepository, relations repository.RelationRepository, logger *slog.Logger) *ReportService {
	return &ReportService{items: items, relations: relations, logger: logger}
}

// load reads relations before items. Items are never deleted, so every item a
// relation refers to is guaranteed to be in the item list read after it.
func (s *ReportService) load(ctx context.Context) ([]model.Item, []model.Relation, error) {
	rels, err := s.relations.ListRelations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing relations: %w", err)
	}
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing items: %w", err)
	}
	return items, rels, nil
}

// Report returns one (source name, target name) row per relation.
func (s *ReportService) Report(ctx context.Context) ([]model.ReportRow, error) {
	items, rels, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to load report data", slog.String("error", err.Error()))
		return nil, err
	}

	rows, err := projection.BuildReport(items, rels)
	if err != nil {
		s.logger.Error("report projection failed", slog.String("error", err.Error()))
		return nil, err
	}
	return rows, nil
}

// Graph returns the node/edge view of all items and relations.
func (s *ReportService) Graph(ctx context.Context) (*model.Graph, error) {
	items, rels, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to load graph data", slog.String("error", err.Error()))
		return nil, err
	}

	g, err := projection.BuildGraph(items, rels)
	if err != nil {
		s.logger.Error("graph projection failed", slog.String("error", err.Error()))
		return nil, err
	}
	return g, nil
}
