package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/auth"
	"github.com/tanvir/feedboard/internal/model"
	"github.com/tanvir/feedboard/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================
//
// In-memory implementations of the repository interfaces. Hand-written
// fakes (not a mock framework) keep the tests dependency-free and make the
// simulated behavior visible at a glance.

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
	// set to a non-nil error to simulate a storage failure
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Status == "" {
		user.Status = model.DefaultStatus
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Status = status
	return nil
}

func (f *fakeUserRepo) AppendPost(_ context.Context, userID, postID string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.PostIDs = append(u.PostIDs, postID)
	return nil
}

func (f *fakeUserRepo) RemovePost(_ context.Context, userID, postID string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	ids := u.PostIDs[:0]
	for _, id := range u.PostIDs {
		if id != postID {
			ids = append(ids, id)
		}
	}
	u.PostIDs = ids
	return nil
}

type fakePostRepo struct {
	posts  map[string]*model.Post
	users  *fakeUserRepo // for embedding creators on reads
	nextID int
	clock  time.Time // advances per create so list order is deterministic
}

func newFakePostRepo(users *fakeUserRepo) *fakePostRepo {
	return &fakePostRepo{
		posts: make(map[string]*model.Post),
		users: users,
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	post.CreatedAt = f.clock
	post.UpdatedAt = f.clock
	stored := *post
	stored.Creator = nil
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	result := *p
	if creator, err := f.users.GetUserByID(ctx, p.CreatorID); err == nil {
		result.Creator = creator
	}
	return &result, nil
}

func (f *fakePostRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, int, error) {
	all := make([]model.Post, 0, len(f.posts))
	for _, p := range f.posts {
		copied := *p
		if creator, err := f.users.GetUserByID(ctx, p.CreatorID); err == nil {
			copied.Creator = creator
		}
		all = append(all, copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if opts.Offset >= len(all) {
		return []model.Post{}, total, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, total, nil
}

func (f *fakePostRepo) Update(_ context.Context, post *model.Post) error {
	if _, ok := f.posts[post.ID]; !ok {
		return apperror.NotFound("post", post.ID)
	}
	post.UpdatedAt = f.clock.Add(time.Minute)
	stored := *post
	stored.Creator = nil
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(f.posts, id)
	return nil
}

// fakeFiles records removal requests and optionally fails them.
type fakeFiles struct {
	removed   []string
	removeErr error
}

func (f *fakeFiles) Remove(path string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, path)
	return nil
}

// =========================================================================
// HELPERS
// =========================================================================

type testEnv struct {
	svc   *Service
	users *fakeUserRepo
	posts *fakePostRepo
	files *fakeFiles
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	users := newFakeUserRepo()
	posts := newFakePostRepo(users)
	files := &fakeFiles{}

	return &testEnv{
		svc:   New(users, posts, tokens, passwords, files, logger),
		users: users,
		posts: posts,
		files: files,
	}
}

// register creates an account through the real operation and returns it.
func (e *testEnv) register(t *testing.T, email, name string) *model.User {
	t.Helper()
	user, err := e.svc.RegisterUser(context.Background(), RegisterUserInput{
		Email:    email,
		Name:     name,
		Password: "sekrit123",
	})
	if err != nil {
		t.Fatalf("RegisterUser(%s) error = %v", email, err)
	}
	return user
}

// asUser returns a context authenticated as the given user.
func asUser(user *model.User) context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
	})
}

// anonCtx is a context with no identity at all.
func anonCtx() context.Context {
	return context.Background()
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %v", err, kind)
	}
}
