package model

import "time"

// Post represents a published post.
//
// CreatorID references exactly one User and never changes after creation.
// Creator is the embedded creator record, populated by repository reads so
// API responses can show who wrote the post without a second lookup. It is
// nil on writes.
//
// ImagePath is a relative path into the image directory, empty when the post
// has no image. The file itself is opaque to this layer.
//
// Timestamps are set by the repository; json encoding renders them as
// RFC 3339 (ISO-8601) strings.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImagePath string    `json:"imagePath,omitempty"`
	CreatorID string    `json:"creatorId"`
	Creator   *User     `json:"creator,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
