// Package validate holds the field-level input rules.
//
// Every function here is pure: it inspects a concrete input struct and
// returns the FULL list of violations — rules are evaluated independently,
// never short-circuited, so the client learns about every bad field in one
// round trip. An empty list means valid. Validation never touches storage;
// storage-dependent rules (email uniqueness, ownership) belong to the
// service layer.
package validate

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/tanvir/feedboard/internal/apperror"
)

// Field-rule constants, shared with error messages so the two can't drift.
const (
	MinPasswordLength = 5
	MinTitleLength    = 5
	MinContentLength  = 5
)

// Credentials checks the email/password pair used by registerUser.
func Credentials(email, password string) []apperror.Violation {
	var v []apperror.Violation

	if !validEmail(email) {
		v = append(v, apperror.Violation{Message: "email is not a valid email address"})
	}
	if err := minLength("password", password, MinPasswordLength); err != nil {
		v = append(v, *err)
	}

	return v
}

// Post checks the title/content rules shared by createPost and updatePost.
func Post(title, content string) []apperror.Violation {
	var v []apperror.Violation

	if err := minLength("title", title, MinTitleLength); err != nil {
		v = append(v, *err)
	}
	if err := minLength("content", content, MinContentLength); err != nil {
		v = append(v, *err)
	}

	return v
}

// minLength reports nil when the trimmed value is non-empty and at least
// min characters long, or a violation describing both rules otherwise.
func minLength(field, value string, min int) *apperror.Violation {
	value = strings.TrimSpace(value)
	if value == "" {
		return &apperror.Violation{Message: fmt.Sprintf("%s must not be empty", field)}
	}
	if len(value) < min {
		return &apperror.Violation{
			Message: fmt.Sprintf("%s must be at least %d characters", field, min),
		}
	}
	return nil
}

// validEmail accepts addresses that parse under RFC 5322 and contain no
// display name ("Bob <bob@x.com>" is a valid mail address but not a valid
// account email).
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
