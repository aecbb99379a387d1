// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is tagged `json:"-"` so it can never leak through any JSON
// response, no matter which handler serializes the struct. The plaintext
// password exists only transiently inside the register/login operations.
//
// PostIDs is the ordered list of posts the user has created, oldest first.
// It is maintained by the repository as posts are created and deleted.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	PostIDs      []string  `json:"posts"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DefaultStatus is assigned to every freshly registered user.
const DefaultStatus = "I am new!"
