package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/model"
	"github.com/tanvir/feedboard/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// postColumns is the SELECT list shared by GetByID and List. The creator
// row is joined in so reads return the post with its author embedded.
const postColumns = `
	p.id, p.title, p.content, p.image_path, p.creator_id, p.created_at, p.updated_at,
	u.id, u.email, u.name, u.status, u.created_at, u.updated_at`

// Create inserts a new post. ID and timestamps are assigned here in-place
// on the caller's struct.
func (db *DB) Create(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.ID = xid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, image_path, creator_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.ImagePath,
		post.CreatorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	return nil
}

// GetByID retrieves a post with its creator embedded.
// Returns apperror.ErrNotFound if no post exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p JOIN users u ON u.id = p.creator_id
		 WHERE p.id = ?`,
		id,
	)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return post, nil
}

// List returns a page of posts ordered by creation time descending (id
// breaks ties between posts created within the same clock tick), plus the
// total number of posts across all pages.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting posts: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p JOIN users u ON u.id = p.creator_id
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, total, nil
}

// Update persists the mutable fields (title, content, image path) and
// refreshes updated_at. creator_id and created_at are deliberately not in
// the UPDATE — a post cannot change creator.
func (db *DB) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, image_path = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.ImagePath,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes the post record.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("post", id)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows so scanPost can serve single and
// multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*model.Post, error) {
	var p model.Post
	var u model.User

	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.ImagePath,
		&p.CreatorID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Creator = &u
	return &p, nil
}
