package model

import "time"

// Item is a named, described entity. Items are the nodes of the relationship graph.
//
// Name is a display label only. Two items may share a name, so anything that
// needs to point at an item (a relation, a form select) uses ID.
type Item struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// Relation is one directed edge SourceID → TargetID between two existing items.
//
// Self-loops (SourceID == TargetID) and repeated edges between the same pair
// are both allowed; every relation has its own ID so they stay distinct.
type Relation struct {
	ID        string    `json:"id"        db:"id"`
	SourceID  string    `json:"sourceId"  db:"source_id"`
	TargetID  string    `json:"targetId"  db:"target_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
