// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the
// fashionstore application backend.
// It defines the user registration contract and an HTTP implementation of it.
package backend

import "context"

// RegistrationRequest is the body of POST /users. The backend upserts by FirebaseID,
// so sending it on every sign-in is safe.
type RegistrationRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	FirebaseID string `json:"firebaseId"`
}

// Registrar defines backend operations the auth client depends on.
// Implementations may call the real HTTP endpoint or provide fakes for tests.
type Registrar interface {
	// RegisterUser upserts the user record keyed by the provider user id.
	RegisterUser(ctx context.Context, req RegistrationRequest) error
}
