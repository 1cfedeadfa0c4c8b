// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler / Shell (presentation) → parses input, renders output
//	Service (business layer)       → validates, enforces rules, orchestrates
//	Repository (data layer)        → reads/writes users, items, relations
//
// WHY A SEPARATE SERVICE LAYER HERE?
// This app has two presentation shells: the web pages/JSON API and the
// terminal REPL. Both need the same rules (role must be admin or user,
// relations are created by item ID, reports come from the projectors).
// Putting the rules here means neither shell can drift from the other.
//
// DEPENDENCY INJECTION:
// Every service takes the narrow repository interface it needs
// (repository.ItemRepository, repository.UserRepository, ...), NOT a *sqlite.DB.
//
// Benefits:
//   - TESTING: tests pass the in-memory store (see service_test.go)
//   - FLEXIBILITY: STORE=memory swaps SQLite for volatile slices without touching this package
//   - DECOUPLING: the service doesn't import the sqlite package at all
package service

// Field length limits, in characters (runes), not bytes. Longer values are
// rejected before they reach storage.
const (
	MaxItemNameLength = 100
	MaxUsernameLength = 50
)
