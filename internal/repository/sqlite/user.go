package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/model"
	"github.com/tanvir/feedboard/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. ID and timestamps are assigned here; the
// status defaults to model.DefaultStatus when the caller left it empty.
//
// Email uniqueness is enforced twice: the service pre-checks with
// GetUserByEmail for a clean conflict message, and the UNIQUE constraint is
// the backstop against two concurrent registrations racing past the
// pre-check.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = model.DefaultStatus
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user and their ordered post-ID list.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, status, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	postIDs, err := db.postIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PostIDs = postIDs

	return &u, nil
}

// GetUserByEmail retrieves a user by exact email match. The email column is
// stored case-sensitively and compared case-sensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var id string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = ?`, email,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: looking up user by email: %w", err)
	}
	return db.GetUserByID(ctx, id)
}

// UpdateStatus replaces the user's status text and bumps updated_at.
func (db *DB) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating status for user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// AppendPost adds a post ID at the end of the user's membership list.
// Position is one past the current maximum, so insertion order is creation
// order.
func (db *DB) AppendPost(ctx context.Context, userID, postID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_posts (user_id, post_id, position)
		 VALUES (?, ?, COALESCE((SELECT MAX(position) + 1 FROM user_posts WHERE user_id = ?), 0))`,
		userID, postID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: appending post %s to user %s: %w", postID, userID, err)
	}
	return nil
}

// RemovePost removes a post ID from the user's membership list. Removing an
// ID that isn't in the list is a no-op, so delete retries stay idempotent.
func (db *DB) RemovePost(ctx context.Context, userID, postID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_posts WHERE user_id = ? AND post_id = ?`,
		userID, postID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing post %s from user %s: %w", postID, userID, err)
	}
	return nil
}

// postIDs loads the ordered membership list for one user.
func (db *DB) postIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT post_id FROM user_posts WHERE user_id = ? ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing post ids for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post ids: %w", err)
	}

	return ids, nil
}
