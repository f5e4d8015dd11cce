package entity

import (
	"slices"
	"time"
)

// DefaultUserStatus is assigned at registration.
const DefaultUserStatus = "I am new!"

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Status    string
	PostIDs   []string // ordered oldest first
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnsPost reports whether postID is in the user's post list.
func (u *User) OwnsPost(postID string) bool {
	return slices.Contains(u.PostIDs, postID)
}
