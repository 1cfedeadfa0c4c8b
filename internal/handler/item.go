package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/itemgraph/internal/service"
)

// ItemHandler serves the /api/items endpoints.
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleList returns every item in insertion order.
//
// HTTP: GET /api/items
//
// RESPONSE FORMAT:
//
//	[
//	  {"id":"cv37rs3pp9olc6atsptg","name":"Customer A","description":"Top-tier client","createdAt":"..."},
//	  ...
//	]
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGetByID returns a single item.
//
// HTTP: GET /api/items/{id}
//
// URL PARAMETERS:
// chi.URLParam(r, "id") reads the {id} segment matched by the router.
// For GET /api/items/abc123 it returns "abc123".
func (h *ItemHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleCreate adds an item.
//
// HTTP: POST /api/items
// REQUEST BODY: {"name": "Customer A", "description": "Top-tier client"}
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid item JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	item, err := h.items.Add(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item) // 201 Created
}
