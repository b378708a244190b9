// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package account implements identity and session management for Komiko.

It handles registration, secure password hashing, JWT issuance and the
Redis-backed refresh session lifecycle. The creator-relevant flags on
the user record are read here but mutated only by the creator package.
*/
package account

import (
	"time"

	"github.com/hoangbui/komiko/internal/platform/sec"
)

// RefreshTokenLength is the entropy size in bytes of refresh tokens.
const RefreshTokenLength = 32

// User is a Komiko account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`

	// # CreatorHub State
	// IsCreator mirrors IsCreatorEnabled for backward compatibility with
	// older clients; both flip together. CreatorDisabledAt is the sole
	// retention clock: nil while enabled, the disable timestamp while
	// disabled and not yet swept.
	IsCreator         bool       `json:"is_creator"`
	IsCreatorEnabled  bool       `json:"is_creator_enabled"`
	CreatorDisabledAt *time.Time `json:"creator_disabled_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Field names for validation mapping.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldLogin    = "login"
)
