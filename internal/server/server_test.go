package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/repository/memory"
	"github.com/sakif/itemgraph/internal/server"
)

// newTestServer runs the full router against an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := server.New(server.Config{
		TemplateDir: "../../web/templates",
		StaticDir:   "../../web/static",
	}, memory.New(), logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// noRedirect stops the client at the 303 so the PRG response can be checked.
func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func createItem(t *testing.T, baseURL, name string) model.Item {
	t.Helper()
	resp, err := http.Post(baseURL+"/api/items", "application/json",
		bytes.NewBufferString(`{"name":"`+name+`","description":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var item model.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	return item
}

func TestNew_BadTemplateDir(t *testing.T) {
	_, err := server.New(server.Config{TemplateDir: t.TempDir()}, memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestServer_APIFlow(t *testing.T) {
	ts := newTestServer(t)

	a := createItem(t, ts.URL, "Customer")
	b := createItem(t, ts.URL, "Project")

	t.Run("relation with unknown id is 422", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/relations", "application/json",
			bytes.NewBufferString(`{"sourceId":"`+a.ID+`","targetId":"missing"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	})

	t.Run("relation created", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/relations", "application/json",
			bytes.NewBufferString(`{"sourceId":"`+a.ID+`","targetId":"`+b.ID+`"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("report", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/report")
		require.NoError(t, err)
		defer resp.Body.Close()

		var rows []model.ReportRow
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Customer", rows[0].Source)
		assert.Equal(t, "Project", rows[0].Target)
	})

	t.Run("graph", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/graph")
		require.NoError(t, err)
		defer resp.Body.Close()

		var g model.Graph
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
		assert.Len(t, g.Nodes, 2)
		require.Len(t, g.Edges, 1)
		assert.Equal(t, model.Edge{ID: g.Edges[0].ID, From: a.ID, To: b.ID}, g.Edges[0])
	})

	t.Run("item by id", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/items/" + b.ID)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("users list", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/users")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestServer_Pages(t *testing.T) {
	ts := newTestServer(t)
	client := &http.Client{CheckRedirect: noRedirect}

	t.Run("root redirects to entry", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/entry", resp.Header.Get("Location"))
	})

	t.Run("form post redirects with notice", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/entry/items", url.Values{"name": {"Invoice #123"}})
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/entry?notice="))
	})

	for _, path := range []string{"/entry", "/users", "/reports", "/diagram", "/diagram/graph.html"} {
		t.Run("GET "+path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		})
	}

	t.Run("static css", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/static/css/style.css")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestServer_SeededGraphDocument(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	require.NoError(t, memory.Seed(context.Background(), store))

	srv, err := server.New(server.Config{TemplateDir: "../../web/templates"}, store, logger)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/diagram/graph.html", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, name := range []string{"Customer A", "Project X", "Invoice #123"} {
		assert.Contains(t, body, name)
	}
}
