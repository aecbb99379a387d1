package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/model"
	"github.com/tanvir/feedboard/internal/repository"
)

func createTestPost(t *testing.T, db *DB, creatorID, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		Title:     title,
		Content:   "some content for " + title,
		CreatorID: creatorID,
	}
	if err := db.Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func TestPostCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.com")

	post := &model.Post{
		Title:     "First Post",
		Content:   "Hello world content",
		ImagePath: "images/Image-cat.png",
		CreatorID: user.ID,
	}
	if err := db.Create(context.Background(), post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if post.ID == "" {
		t.Error("Create() did not set post.ID")
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestPostGetByID_EmbedsCreator(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.com")
	created := createTestPost(t, db, user.ID, "fetch me!")

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Title != "fetch me!" {
		t.Errorf("Title = %q, want %q", found.Title, "fetch me!")
	}
	if found.Creator == nil {
		t.Fatal("GetByID() did not embed the creator")
	}
	if found.Creator.ID != user.ID {
		t.Errorf("Creator.ID = %q, want %q", found.Creator.ID, user.ID)
	}
	if found.Creator.PasswordHash != "" {
		t.Error("embedded creator must not carry the password hash")
	}
}

func TestPostGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestPostList_NewestFirstWithTotal(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.com")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		createTestPost(t, db, user.ID, fmt.Sprintf("post %d!", i))
	}

	page1, total, err := db.List(ctx, repository.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page1) != 2 {
		t.Fatalf("len(page1) = %d, want 2", len(page1))
	}
	if page1[0].Title != "post 5!" || page1[1].Title != "post 4!" {
		t.Errorf("page1 = [%q, %q], want newest first", page1[0].Title, page1[1].Title)
	}

	page3, total, err := db.List(ctx, repository.ListOptions{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page3) != 1 || page3[0].Title != "post 1!" {
		t.Errorf("page3 = %v, want the single oldest post", page3)
	}
}

func TestPostList_EmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	posts, total, err := db.List(context.Background(), repository.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 0 || len(posts) != 0 {
		t.Errorf("List() = (%v, %d), want empty page and zero total", posts, total)
	}
}

func TestPostUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.com")
	post := createTestPost(t, db, user.ID, "before update")

	post.Title = "after update"
	post.Content = "rewritten content"
	if err := db.Update(context.Background(), post); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := db.GetByID(context.Background(), post.ID)
	if found.Title != "after update" {
		t.Errorf("Title = %q, want %q", found.Title, "after update")
	}
	if found.CreatorID != user.ID {
		t.Error("Update() must not change the creator")
	}
}

func TestPostUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Post{ID: "missing", Title: "x", Content: "y"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestPostDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.com")
	post := createTestPost(t, db, user.ID, "doomed post")

	if err := db.Delete(context.Background(), post.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.GetByID(context.Background(), post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestPostDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	if err := db.Delete(context.Background(), "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}
