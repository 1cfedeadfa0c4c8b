// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data; similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Role is the tag stored on every user account.
//
// WHY A NAMED STRING TYPE?
// A plain string would work, but a named type lets the compiler catch places
// where we pass a username where a role was expected. The underlying value is
// still a string, so it scans from and writes to the database without any
// conversion code.
//
// Roles are stored but never checked: no operation in the app behaves
// differently for an admin.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles lists the values offered to callers, in display order.
var Roles = []Role{RoleAdmin, RoleUser}

// Valid reports whether r is one of the offered roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents an account record.
// Users are not connected to items or relations in any way.
type User struct {
	ID        string    `json:"id"        db:"id"`
	Username  string    `json:"username"  db:"username"`
	Role      Role      `json:"role"      db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
