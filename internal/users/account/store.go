// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package account

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	// Create persists a new user account.
	Create(context context.Context, user *User) error

	// FindByID returns the active user with the given ID.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the active user with the given email.
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByUsername returns the active user with the given username.
	FindByUsername(context context.Context, username string) (*User, error)
}

// # Session Data Access

// SessionRepository stores refresh sessions keyed by opaque token.
type SessionRepository interface {
	// Set stores a refresh token mapped to the user ID with a TTL.
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	// Get resolves the user ID behind a refresh token.
	Get(context context.Context, token string) (string, error)

	// Delete revokes a refresh token.
	Delete(context context.Context, token string) error
}
