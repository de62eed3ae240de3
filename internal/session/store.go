// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session defines the local session contract used by the auth client.
//
// A session is two independent string entries, the provider-issued token and the
// provider user id. Entries are written one at a time; a failure between writes can
// leave one set without the other and callers must tolerate that.
package session

import "errors"

// Keys used for the local session entries.
const (
	KeyAuthToken = "authToken"
	KeyUserID    = "userId"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("session key not found")

// Store is a synchronous key-value persistence for session entries.
// Implementations may back onto the OS keychain, an encrypted file or Redis.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Remove(key string) error
}

// Lookup reads key and folds ErrNotFound into an empty value.
func Lookup(s Store, key string) (string, error) {
	v, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
