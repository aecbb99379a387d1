package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/authz"
)

// Invoke is the operation-name entry point used by the transport: it takes
// the operation name and the raw JSON arguments, decodes them into the
// operation's typed input struct, and calls the corresponding method.
//
// The identity is already in ctx (the middleware verified the credential
// once per request), so the full pipeline still runs: the called method
// authorizes, validates, and executes as usual.
func (s *Service) Invoke(ctx context.Context, op string, args json.RawMessage) (any, error) {
	switch authz.Operation(op) {
	case authz.OpRegisterUser:
		return call(ctx, args, s.RegisterUser)
	case authz.OpLogin:
		return call(ctx, args, s.Login)
	case authz.OpCreatePost:
		return call(ctx, args, s.CreatePost)
	case authz.OpListPosts:
		return call(ctx, args, s.ListPosts)
	case authz.OpGetPost:
		return call(ctx, args, s.GetPost)
	case authz.OpUpdatePost:
		return call(ctx, args, s.UpdatePost)
	case authz.OpDeletePost:
		return call(ctx, args, s.DeletePost)
	case authz.OpGetProfile:
		return s.GetProfile(ctx)
	case authz.OpSetStatus:
		return call(ctx, args, s.SetStatus)
	default:
		return nil, apperror.NotFound("operation", op)
	}
}

// call decodes the raw arguments into the operation's input struct and
// invokes fn. Absent args decode as the zero-value input, matching an
// operation called with no arguments. A JSON shape mismatch is a client
// error, reported as a single-violation validation failure.
func call[In, Out any](ctx context.Context, args json.RawMessage, fn func(context.Context, In) (Out, error)) (any, error) {
	var in In
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, apperror.ValidationFailed([]apperror.Violation{
				{Message: fmt.Sprintf("malformed arguments: %v", err)},
			})
		}
	}
	return fn(ctx, in)
}
