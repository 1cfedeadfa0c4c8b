package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/itemgraph/internal/service"
)

// RelationHandler serves the /api/relations endpoints.
type RelationHandler struct {
	relations *service.RelationService
	logger    *slog.Logger
}

func NewRelationHandler(relations *service.RelationService, logger *slog.Logger) *RelationHandler {
	return &RelationHandler{relations: relations, logger: logger}
}

type createRelationRequest struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// HandleList returns every relation.
//
// HTTP: GET /api/relations
func (h *RelationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rels, err := h.relations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rels)
}

// HandleCreate links two items by ID.
//
// HTTP: POST /api/relations
// REQUEST BODY: {"sourceId": "cv37rs3pp9olc6atsptg", "targetId": "cv37rs3pp9olc6atspu0"}
//
// An unknown ID answers 422 with "referential_integrity" and nothing is stored.
func (h *RelationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRelationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid relation JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	rel, err := h.relations.Add(r.Context(), req.SourceID, req.TargetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rel)
}
