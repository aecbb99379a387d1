// Package authz is the per-operation authorization gate.
//
// Every operation the service exposes is tagged with exactly one policy:
//
//	Public             anyone, including anonymous callers
//	AuthenticatedOnly  any identity that isn't anonymous
//	OwnerOnly          authenticated AND identity matches the resource owner
//
// The table lives here, in one place, so a reviewer can see the whole
// access-control surface at a glance. The gate itself is a pure function —
// resource ownership lookups happen in the service layer BEFORE the gate is
// consulted, and a missing resource is reported as not-found before
// authorization is even attempted. That ordering is deliberate: for a
// nonexistent resource, every caller sees the same 404, authenticated or
// not.
package authz

import (
	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/auth"
)

// Policy classifies who may invoke an operation.
type Policy int

const (
	Public Policy = iota
	AuthenticatedOnly
	OwnerOnly
)

// Operation names every action the service exposes.
type Operation string

const (
	OpRegisterUser Operation = "registerUser"
	OpLogin        Operation = "login"
	OpCreatePost   Operation = "createPost"
	OpListPosts    Operation = "listPosts"
	OpGetPost      Operation = "getPost"
	OpUpdatePost   Operation = "updatePost"
	OpDeletePost   Operation = "deletePost"
	OpGetProfile   Operation = "getProfile"
	OpSetStatus    Operation = "setStatus"
)

// policies is the complete access-control table.
var policies = map[Operation]Policy{
	OpRegisterUser: Public,
	OpLogin:        Public,
	OpCreatePost:   AuthenticatedOnly,
	OpListPosts:    AuthenticatedOnly,
	OpGetPost:      AuthenticatedOnly,
	OpUpdatePost:   OwnerOnly,
	OpDeletePost:   OwnerOnly,
	OpGetProfile:   AuthenticatedOnly,
	OpSetStatus:    AuthenticatedOnly,
}

// PolicyFor returns the policy for an operation. Unknown operations are
// treated as AuthenticatedOnly — failing closed is the safe default for an
// operation someone forgot to register in the table.
func PolicyFor(op Operation) Policy {
	p, ok := policies[op]
	if !ok {
		return AuthenticatedOnly
	}
	return p
}

// Authorize decides whether the identity may perform the operation.
//
// ownerID is only consulted for OwnerOnly operations; pass "" otherwise.
// Returns nil on allow, apperror.NotAuthenticated for anonymous callers of
// protected operations, and apperror.Forbidden for authenticated callers
// that don't own the resource.
func Authorize(id auth.Identity, op Operation, ownerID string) error {
	switch PolicyFor(op) {
	case Public:
		return nil
	case AuthenticatedOnly:
		if id.Anonymous() {
			return apperror.NotAuthenticated("")
		}
		return nil
	case OwnerOnly:
		if id.Anonymous() {
			return apperror.NotAuthenticated("")
		}
		if id.UserID != ownerID {
			return apperror.Forbidden("not authorized to modify this resource")
		}
		return nil
	}
	return apperror.Forbidden("unknown policy")
}
