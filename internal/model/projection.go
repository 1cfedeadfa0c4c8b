package model

// ReportRow is one line of the relationships report: the names of both
// endpoints of a relation.
type ReportRow struct {
	RelationID string `json:"relationId"`
	Source     string `json:"source"`
	Target     string `json:"target"`
}

// Node is a graph vertex built from an Item.
// The JSON field names match what vis-network expects (id, label, title).
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title,omitempty"` // tooltip, taken from the item description
}

// Edge is a directed graph edge built from a Relation.
// ID is the relation ID, so parallel edges and self-loops never collapse.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the node/edge view of the items and relations.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
