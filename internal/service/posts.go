package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/auth"
	"github.com/tanvir/feedboard/internal/authz"
	"github.com/tanvir/feedboard/internal/model"
	"github.com/tanvir/feedboard/internal/repository"
	"github.com/tanvir/feedboard/internal/validate"
)

// CreatePostInput carries the createPost arguments. ImagePath is optional;
// a post without an image stores the empty string.
type CreatePostInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImagePath string `json:"imagePath"`
}

// ListPostsInput carries the listPosts arguments. Page starts at 1; zero or
// negative values fall back to the first page.
type ListPostsInput struct {
	Page int `json:"page"`
}

// PostPage is one page of the feed plus the total count across all pages.
type PostPage struct {
	Posts      []model.Post `json:"posts"`
	TotalPosts int          `json:"totalPosts"`
}

// GetPostInput carries the getPost argument.
type GetPostInput struct {
	ID string `json:"id"`
}

// UpdatePostInput carries the updatePost arguments.
//
// ImagePath is a pointer so "leave the image alone" is expressible: an
// absent JSON field decodes to nil and the stored path is kept. This
// replaces the fragile convention of sending a magic sentinel string to
// mean "no change".
type UpdatePostInput struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImagePath *string `json:"imagePath"`
}

// DeletePostInput carries the deletePost argument.
type DeletePostInput struct {
	ID string `json:"id"`
}

// CreatePost publishes a new post owned by the caller.
//
// After the post row is written, the post ID is appended to the creator's
// membership list as a second, separate write. A crash between the two
// leaves an orphaned post that no user list references — accepted here;
// this layer does not repair it.
func (s *Service) CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	identity := auth.IdentityFromContext(ctx)
	if err := authz.Authorize(identity, authz.OpCreatePost, ""); err != nil {
		return nil, err
	}

	if violations := validate.Post(in.Title, in.Content); len(violations) > 0 {
		return nil, apperror.ValidationFailed(violations)
	}

	// Resolve the creator from the identity. A valid token whose account
	// has since disappeared is treated as not authenticated, not as a
	// missing resource.
	creator, err := s.users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotAuthenticated("no account for this credential")
		}
		return nil, fmt.Errorf("service: resolving creator: %w", err)
	}

	post := &model.Post{
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		ImagePath: in.ImagePath,
		CreatorID: creator.ID,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("userID", creator.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: creating post: %w", err)
	}

	if err := s.users.AppendPost(ctx, creator.ID, post.ID); err != nil {
		// The post row exists but isn't in the user's list.
		s.logger.Error("post created but membership append failed",
			slog.String("postID", post.ID),
			slog.String("userID", creator.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: appending post %s to creator list: %w", post.ID, err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", creator.ID),
	)

	post.Creator = creator
	return post, nil
}

// ListPosts returns one page of the feed, newest first, with the creator
// embedded in each post and the total count for pagination UI.
func (s *Service) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	if err := authz.Authorize(auth.IdentityFromContext(ctx), authz.OpListPosts, ""); err != nil {
		return nil, err
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	posts, total, err := s.posts.List(ctx, repository.ListOptions{
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
	})
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service: listing posts: %w", err)
	}

	return &PostPage{Posts: posts, TotalPosts: total}, nil
}

// GetPost returns a single post with its creator embedded.
func (s *Service) GetPost(ctx context.Context, in GetPostInput) (*model.Post, error) {
	if err := authz.Authorize(auth.IdentityFromContext(ctx), authz.OpGetPost, ""); err != nil {
		return nil, err
	}

	return s.posts.GetByID(ctx, in.ID)
}

// UpdatePost edits a post the caller owns.
//
// Order matters: the post is fetched first, so a nonexistent ID yields
// not-found for every caller regardless of identity; only for a post that
// exists does the ownership check run. Concurrent updates against the same
// post are not serialized here — last write wins.
func (s *Service) UpdatePost(ctx context.Context, in UpdatePostInput) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	identity := auth.IdentityFromContext(ctx)
	if err := authz.Authorize(identity, authz.OpUpdatePost, post.CreatorID); err != nil {
		return nil, err
	}

	if violations := validate.Post(in.Title, in.Content); len(violations) > 0 {
		return nil, apperror.ValidationFailed(violations)
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Content = strings.TrimSpace(in.Content)
	if in.ImagePath != nil {
		post.ImagePath = *in.ImagePath
	}

	if err := s.posts.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("postID", post.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: updating post %s: %w", post.ID, err)
	}

	s.logger.Info("post updated",
		slog.String("postID", post.ID),
		slog.String("userID", identity.UserID),
	)

	return post, nil
}

// DeletePost removes a post the caller owns, best-effort unlinks its image
// file, and drops the post from the creator's membership list.
func (s *Service) DeletePost(ctx context.Context, in DeletePostInput) (*Success, error) {
	post, err := s.posts.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	identity := auth.IdentityFromContext(ctx)
	if err := authz.Authorize(identity, authz.OpDeletePost, post.CreatorID); err != nil {
		return nil, err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return nil, fmt.Errorf("service: deleting post %s: %w", post.ID, err)
	}

	// The image file is gone-or-logged, never a reason to fail the delete.
	if post.ImagePath != "" {
		if err := s.files.Remove(post.ImagePath); err != nil {
			s.logger.Warn("failed to remove post image",
				slog.String("postID", post.ID),
				slog.String("path", post.ImagePath),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.users.RemovePost(ctx, post.CreatorID, post.ID); err != nil {
		return nil, fmt.Errorf("service: removing post %s from creator list: %w", post.ID, err)
	}

	s.logger.Info("post deleted",
		slog.String("postID", post.ID),
		slog.String("userID", identity.UserID),
	)

	return &Success{OK: true}, nil
}
