// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Identity is username + password. We generate our own internal string ID
// (xid) so journal entries reference a stable key even if usernames ever
// become changeable.
//
// PasswordHash is the bcrypt hash of the user's password. The json:"-" tag
// keeps it out of every serialized response — it must never leave the server.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"` // unique, case-sensitive
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
