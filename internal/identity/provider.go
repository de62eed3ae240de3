// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package identity talks to the identity provider that authenticates end users.
//
// Provider is the narrow contract the auth client depends on. Firebase implements it
// over the Identity Toolkit REST API; GoogleFlow supplies the Google ID token that the
// interactive sign-in exchanges with the provider.
package identity

import (
	"context"
	"errors"
	"time"
)

// ErrNoCurrentUser is returned by operations that need a signed-in session when there is none.
var ErrNoCurrentUser = errors.New("no signed-in user")

// User is the provider-side view of an authenticated end user.
type User struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool

	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider is the identity provider contract. Every call may fail with *Error carrying
// a human-readable message.
type Provider interface {
	// SignInWithGoogle runs the interactive Google sign-in and returns the signed-in user.
	SignInWithGoogle(ctx context.Context) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*User, error)
	CreateUser(ctx context.Context, email, password string) (*User, error)
	// SignOut ends the provider session held by this process.
	SignOut(ctx context.Context) error

	SendPasswordResetEmail(ctx context.Context, email string) error
	SendEmailVerification(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, u *User, password string) error
	// UpdateProfile sets the display name. An empty name removes it.
	UpdateProfile(ctx context.Context, u *User, displayName string) error
	UpdateEmail(ctx context.Context, u *User, email string) error
	// Reload refreshes the provider-side profile of u.
	Reload(ctx context.Context, u *User) error
	// IDToken returns a token for u, refreshing it when it is about to expire.
	IDToken(ctx context.Context, u *User) (string, error)

	// CurrentUser returns the signed-in user or nil.
	CurrentUser() *User
}
