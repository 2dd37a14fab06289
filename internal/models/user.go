// Package models holds the record types shared by the storage adapters and
// services.
package models

import "time"

// User is a member profile. Username is the primary key and Email is unique
// across the store. Records are never hard-deleted.
type User struct {
	// ID is the opaque row identifier assigned by the remote backend.
	// The local key-value variant leaves it empty and keys by Username.
	ID string `json:"id,omitempty"`

	Username string `json:"username"`
	Email    string `json:"email"`

	// PasswordHash is a bcrypt hash. Plaintext never touches the store.
	PasswordHash string `json:"passwordHash"`

	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`

	// Premium is flipped by the payment confirmation hook.
	Premium bool `json:"isPremium"`
}
