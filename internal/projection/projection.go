// Package projection turns stored items and relations into derived views:
// report rows for tables and a node/edge graph for the diagram.
//
// Both projections are pure functions over slices. They never touch storage,
// so the service layer decides where the slices come from and tests can call
// them with literals.
//
// DANGLING ENDPOINTS:
// A relation can only be stored when both items exist and items are never
// deleted, so an unresolved endpoint means the data was changed behind the
// app's back. Both projections treat that the same way: they stop and return
// apperror.ErrDanglingReference naming the relation. Rows are never dropped
// silently.
package projection

import (
	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/model"
)

// index maps item ID → item. Duplicate names are fine; IDs are unique.
func index(items []model.Item) map[string]*model.Item {
	byID := make(map[string]*model.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return byID
}

// endpoints resolves both ends of rel or reports the first one missing.
func endpoints(byID map[string]*model.Item, rel model.Relation) (src, dst *model.Item, err error) {
	src, ok := byID[rel.SourceID]
	if !ok {
		return nil, nil, apperror.DanglingReference(rel.ID, rel.SourceID)
	}
	dst, ok = byID[rel.TargetID]
	if !ok {
		return nil, nil, apperror.DanglingReference(rel.ID, rel.TargetID)
	}
	return src, dst, nil
}

// BuildReport joins every relation against the items twice, once per
// endpoint, and returns one (source name, target name) row per relation in
// relation order.
func BuildReport(items []model.Item, relations []model.Relation) ([]model.ReportRow, error) {
	byID := index(items)

	rows := make([]model.ReportRow, 0, len(relations))
	for _, rel := range relations {
		src, dst, err := endpoints(byID, rel)
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.ReportRow{
			RelationID: rel.ID,
			Source:     src.Name,
			Target:     dst.Name,
		})
	}
	return rows, nil
}

// BuildGraph returns one node per item (in item order) and one directed edge
// per relation (in relation order).
//
// Edge direction is always source → target. Each edge keeps its relation ID,
// so a self-loop or a second edge between the same pair is a separate entry.
func BuildGraph(items []model.Item, relations []model.Relation) (*model.Graph, error) {
	byID := index(items)

	g := &model.Graph{
		Nodes: make([]model.Node, 0, len(items)),
		Edges: make([]model.Edge, 0, len(relations)),
	}
	for _, it := range items {
		g.Nodes = append(g.Nodes, model.Node{
			ID:    it.ID,
			Label: it.Name,
			Title: it.Description,
		})
	}
	for _, rel := range relations {
		if _, _, err := endpoints(byID, rel); err != nil {
			return nil, err
		}
		g.Edges = append(g.Edges, model.Edge{
			ID:   rel.ID,
			From: rel.SourceID,
			To:   rel.TargetID,
		})
	}
	return g, nil
}
