// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite); tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/tanvir/feedboard/internal/model"
)

// ListOptions carries offset pagination parameters.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository persists user accounts and the ordered list of post IDs
// each user owns.
type UserRepository interface {
	// CreateUser inserts a new user, assigning ID and timestamps. Returns
	// apperror.ErrConflict if the email is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByID returns the user with their post-ID list populated.
	// Returns apperror.ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail looks a user up by exact (case-sensitive) email.
	// Returns apperror.ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateStatus replaces the user's status text.
	UpdateStatus(ctx context.Context, id, status string) error
	// AppendPost adds a post ID to the end of the user's membership list.
	AppendPost(ctx context.Context, userID, postID string) error
	// RemovePost removes a post ID from the user's membership list.
	RemovePost(ctx context.Context, userID, postID string) error
}

// PostRepository persists posts. Reads embed the creator record.
type PostRepository interface {
	// Create inserts a new post, assigning ID and timestamps.
	Create(ctx context.Context, post *model.Post) error
	// GetByID returns the post with Creator populated.
	// Returns apperror.ErrNotFound if no such post exists.
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// List returns a page of posts, newest first, plus the total count
	// across all pages.
	List(ctx context.Context, opts ListOptions) ([]model.Post, int, error)
	// Update persists title, content, image path, and refreshes UpdatedAt.
	Update(ctx context.Context, post *model.Post) error
	// Delete removes the post record.
	// Returns apperror.ErrNotFound if no such post exists.
	Delete(ctx context.Context, id string) error
}
