package entity

import "time"

// Post is a blog entry owned by exactly one User.
type Post struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	CreatorID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCreatedBy compares the raw creator reference with userID.
func (p *Post) IsCreatedBy(userID string) bool {
	return userID != "" && p.CreatorID == userID
}
