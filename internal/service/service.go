// Package service contains the business logic layer: one method per
// operation the API exposes.
//
// Every operation follows the same pipeline:
//
//	authenticate → authorize → validate → execute → shape response
//
// Authentication happened once per request before we get here — the
// middleware verified the bearer token and put the identity (possibly
// anonymous) in the context. Each method re-reads it, consults the policy
// table in internal/authz, runs the pure validators from internal/validate,
// and only then touches the repositories. Any failure short-circuits with
// an error from the apperror taxonomy; the HTTP layer turns that into the
// client-facing envelope exactly once.
//
// The service knows nothing about HTTP. Handlers, tests, and the
// operation-name dispatch in dispatch.go all call the same methods.
package service

import (
	"log/slog"

	"github.com/tanvir/feedboard/internal/auth"
	"github.com/tanvir/feedboard/internal/repository"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 2

// FileRemover deletes the file behind a stored image path. Satisfied by
// *storage.ImageStore; tests substitute a recording fake.
type FileRemover interface {
	Remove(relPath string) error
}

// Service holds every dependency the operations need. All of them are
// injected via New — the shared secret lives inside TokenService, the
// storage handle behind the repository interfaces; nothing is reached
// through package globals.
type Service struct {
	users     repository.UserRepository
	posts     repository.PostRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	files     FileRemover
	logger    *slog.Logger
}

// New wires up a Service. Called once at startup from the server's
// composition root.
func New(
	users repository.UserRepository,
	posts repository.PostRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	files FileRemover,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:     users,
		posts:     posts,
		tokens:    tokens,
		passwords: passwords,
		files:     files,
		logger:    logger,
	}
}

// Success is the response shape for operations that only acknowledge.
type Success struct {
	OK bool `json:"ok"`
}
