package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository"
)

// RelationService creates and lists directed edges between items.
type RelationService struct {
	repo   repository.RelationRepository
	logger *slog.Logger
}

func NewRelationService(repo repository.RelationRepository, logger *slog.Logger) *RelationService {
	return &RelationService{repo: repo, logger: logger}
}

// Add links sourceID → targetID.
//
// SELECTION BY ID:
// Both endpoints are item IDs, never names. Item names are not unique, so
// "link Customer to Project" could mean several different edges; an ID can't.
// The repository checks both IDs exist and returns
// apperror.ErrReferentialIntegrity otherwise. That error is passed through
// untouched so callers can report which endpoint was wrong.
func (s *RelationService) Add(ctx context.Context, sourceID, targetID string) (*model.Relation, error) {
	sourceID = strings.TrimSpace(sourceID)
	targetID = strings.TrimSpace(targetID)
	if sourceID == "" {
		return nil, apperror.ValidationFailed("sourceId", "source item is required")
	}
	if targetID == "" {
		return nil, apperror.ValidationFailed("targetId", "target item is required")
	}

	rel := &model.Relation{SourceID: sourceID, TargetID: targetID}
	if err := s.repo.CreateRelation(ctx, rel); err != nil {
		if errors.Is(err, apperror.ErrReferentialIntegrity) {
			s.logger.Warn("relation rejected",
				slog.String("sourceId", sourceID),
				slog.String("targetId", targetID),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		s.logger.Error("failed to create relation",
			slog.String("sourceId", sourceID),
			slog.String("targetId", targetID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating relation: %w", err)
	}

	s.logger.Info("relation created",
		slog.String("id", rel.ID),
		slog.String("sourceId", rel.SourceID),
		slog.String("targetId", rel.TargetID),
	)
	return rel, nil
}

// List returns every relation in the order they were added.
func (s *RelationService) List(ctx context.Context) ([]model.Relation, error) {
	rels, err := s.repo.ListRelations(ctx)
	if err != nil {
		s.logger.Error("failed to list relations", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	return rels, nil
}
