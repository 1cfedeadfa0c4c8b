package projection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
)

var (
	customer = model.Item{ID: "a", Name: "Customer", Description: "Top-tier client"}
	project  = model.Item{ID: "b", Name: "Project", Description: "Important initiative"}
	invoice  = model.Item{ID: "c", Name: "Invoice", Description: ""}
)

func TestBuildReport_SingleRelation(t *testing.T) {
	rows, err := BuildReport(
		[]model.Item{customer, project},
		[]model.Relation{{ID: "r1", SourceID: "a", TargetID: "b"}},
	)
	require.NoError(t, err)
	assert.Equal(t, []model.ReportRow{{RelationID: "r1", Source: "Customer", Target: "Project"}}, rows)
}

func TestBuildReport_FollowsRelationOrder(t *testing.T) {
	items := []model.Item{customer, project, invoice}
	rels := []model.Relation{
		{ID: "r1", SourceID: "b", TargetID: "c"},
		{ID: "r2", SourceID: "a", TargetID: "b"},
		{ID: "r3", SourceID: "c", TargetID: "a"},
	}

	rows, err := BuildReport(items, rels)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	got := make([][2]string, len(rows))
	for i, r := range rows {
		got[i] = [2]string{r.Source, r.Target}
	}
	assert.Equal(t, [][2]string{
		{"Project", "Invoice"},
		{"Customer", "Project"},
		{"Invoice", "Customer"},
	}, got)
}

func TestBuildReport_DuplicateNamesResolveByID(t *testing.T) {
	// Two items called "Customer": the report must use the IDs, not the names.
	other := model.Item{ID: "z", Name: "Customer", Description: "the other one"}
	rows, err := BuildReport(
		[]model.Item{customer, other, project},
		[]model.Relation{{ID: "r1", SourceID: "z", TargetID: "b"}},
	)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Customer", rows[0].Source)
	assert.Equal(t, "r1", rows[0].RelationID)
}

func TestBuildReport_Empty(t *testing.T) {
	rows, err := BuildReport(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestBuildGraph_DirectedEdge(t *testing.T) {
	g, err := BuildGraph(
		[]model.Item{customer, project},
		[]model.Relation{{ID: "r1", SourceID: "a", TargetID: "b"}},
	)
	require.NoError(t, err)

	assert.Equal(t, []model.Node{
		{ID: "a", Label: "Customer", Title: "Top-tier client"},
		{ID: "b", Label: "Project", Title: "Important initiative"},
	}, g.Nodes)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "a", g.Edges[0].From)
	assert.Equal(t, "b", g.Edges[0].To)
}

func TestBuildGraph_SelfLoopAndParallelEdges(t *testing.T) {
	g, err := BuildGraph(
		[]model.Item{customer, project},
		[]model.Relation{
			{ID: "loop", SourceID: "a", TargetID: "a"},
			{ID: "r1", SourceID: "a", TargetID: "b"},
			{ID: "r2", SourceID: "a", TargetID: "b"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []model.Edge{
		{ID: "loop", From: "a", To: "a"},
		{ID: "r1", From: "a", To: "b"},
		{ID: "r2", From: "a", To: "b"},
	}, g.Edges)
}

func TestBuildGraph_IsolatedItemsStillNodes(t *testing.T) {
	g, err := BuildGraph([]model.Item{customer, project, invoice}, nil)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 3)
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Edges)
}

func TestProjections_Idempotent(t *testing.T) {
	items := []model.Item{customer, project}
	rels := []model.Relation{{ID: "r1", SourceID: "a", TargetID: "b"}}

	r1, err := BuildReport(items, rels)
	require.NoError(t, err)
	r2, err := BuildReport(items, rels)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	g1, err := BuildGraph(items, rels)
	require.NoError(t, err)
	g2, err := BuildGraph(items, rels)
	require.NoError(t, err)
	assert.Equal(t, g1, g2)
}

func TestProjections_DanglingReference(t *testing.T) {
	items := []model.Item{customer}

	tests := []struct {
		name string
		rel  model.Relation
	}{
		{"missing source", model.Relation{ID: "r1", SourceID: "gone", TargetID: "a"}},
		{"missing target", model.Relation{ID: "r1", SourceID: "a", TargetID: "gone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildReport(items, []model.Relation{tt.rel})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrDanglingReference), "report error = %v", err)
			assert.Contains(t, err.Error(), "gone")

			_, err = BuildGraph(items, []model.Relation{tt.rel})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrDanglingReference), "graph error = %v", err)
		})
	}
}
