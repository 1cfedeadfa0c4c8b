package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/itemgraph/internal/handler"
	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository/memory"
	"github.com/sakif/itemgraph/internal/service"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

func newServices(t *testing.T) (handler.Services, *memory.Store) {
	t.Helper()
	store := memory.New()
	return handler.Services{
		Users:     service.NewUserService(store, logger),
		Items:     service.NewItemService(store, logger),
		Relations: service.NewRelationService(store, logger),
		Reports:   service.NewReportService(store, store, logger),
	}, store
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var res handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	return res
}

func TestItemHandler(t *testing.T) {
	svc, _ := newServices(t)
	h := handler.NewItemHandler(svc.Items, logger)

	t.Run("create", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/items", `{"name":"Customer A","description":"Top-tier client"}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var item model.Item
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&item))
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "Customer A", item.Name)
	})

	t.Run("empty name accepted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/items", `{"name":"","description":""}`))
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("invalid request body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/items", `{"name":`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "validation_error", decodeError(t, rr).Error)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/items", `{"title":"x"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list in insertion order", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleList(rr, httptest.NewRequest(http.MethodGet, "/api/items", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var items []model.Item
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&items))
		require.Len(t, items, 2)
		assert.Equal(t, "Customer A", items[0].Name)
		assert.Equal(t, "", items[1].Name)
	})
}

func TestItemHandler_GetByID(t *testing.T) {
	svc, _ := newServices(t)
	item, err := svc.Items.Add(context.Background(), "Project X", "")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/api/items/{id}", handler.NewItemHandler(svc.Items, logger).HandleGetByID)

	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items/"+item.ID, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got model.Item
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, item.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items/nope", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", decodeError(t, rr).Error)
	})
}

func TestRelationHandler(t *testing.T) {
	svc, store := newServices(t)
	ctx := context.Background()
	a, err := svc.Items.Add(ctx, "Customer", "")
	require.NoError(t, err)
	b, err := svc.Items.Add(ctx, "Project", "")
	require.NoError(t, err)

	h := handler.NewRelationHandler(svc.Relations, logger)

	t.Run("create", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/relations", `{"sourceId":"`+a.ID+`","targetId":"`+b.ID+`"}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var rel model.Relation
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&rel))
		assert.Equal(t, a.ID, rel.SourceID)
		assert.Equal(t, b.ID, rel.TargetID)
	})

	t.Run("unknown target is 422 and writes nothing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/relations", `{"sourceId":"`+a.ID+`","targetId":"ghost"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "referential_integrity", decodeError(t, rr).Error)

		rels, err := store.ListRelations(ctx)
		require.NoError(t, err)
		assert.Len(t, rels, 1)
	})

	t.Run("blank ids are 400", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/relations", `{"sourceId":"","targetId":""}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleList(rr, httptest.NewRequest(http.MethodGet, "/api/relations", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var rels []model.Relation
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&rels))
		assert.Len(t, rels, 1)
	})
}

func TestUserHandler(t *testing.T) {
	svc, _ := newServices(t)
	h := handler.NewUserHandler(svc.Users, logger)

	t.Run("create", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/users", `{"username":"alice","role":"admin"}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var u model.User
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, model.RoleAdmin, u.Role)
	})

	t.Run("unknown role", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleCreate(rr, postJSON("/api/users", `{"username":"eve","role":"root"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "validation_error", decodeError(t, rr).Error)
	})

	t.Run("list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleList(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))

		var users []model.User
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&users))
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Username)
	})
}

func TestReportHandler(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	a, err := svc.Items.Add(ctx, "Customer", "buys things")
	require.NoError(t, err)
	b, err := svc.Items.Add(ctx, "Project", "")
	require.NoError(t, err)
	_, err = svc.Relations.Add(ctx, a.ID, b.ID)
	require.NoError(t, err)

	h := handler.NewReportHandler(svc.Reports, logger)

	t.Run("report", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleReport(rr, httptest.NewRequest(http.MethodGet, "/api/report", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var rows []model.ReportRow
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Customer", rows[0].Source)
		assert.Equal(t, "Project", rows[0].Target)
	})

	t.Run("graph", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleGraph(rr, httptest.NewRequest(http.MethodGet, "/api/graph", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var g model.Graph
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&g))
		assert.Len(t, g.Nodes, 2)
		require.Len(t, g.Edges, 1)
		assert.Equal(t, a.ID, g.Edges[0].From)
		assert.Equal(t, b.ID, g.Edges[0].To)
		assert.Equal(t, "buys things", g.Nodes[0].Title)
	})
}
