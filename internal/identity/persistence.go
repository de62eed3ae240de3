// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"encoding/json"
	"errors"
	"time"

	"fashionstore/cli/internal/session"
)

// persistedUser is the on-store form of the signed-in user.
type persistedUser struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	IDToken       string    `json:"idToken"`
	RefreshToken  string    `json:"refreshToken"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type persistence struct {
	store session.Store
	key   string
}

func persistenceKey(apiKey string) string {
	return "firebase:authUser:" + apiKey
}

func (p *persistence) save(u *User) error {
	b, err := json.Marshal(persistedUser{
		UID:           u.UID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		IDToken:       u.IDToken,
		RefreshToken:  u.RefreshToken,
		ExpiresAt:     u.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return p.store.Set(p.key, string(b))
}

// load returns nil, nil when nothing is persisted.
func (p *persistence) load() (*User, error) {
	raw, err := p.store.Get(p.key)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pu persistedUser
	if err := json.Unmarshal([]byte(raw), &pu); err != nil {
		return nil, err
	}
	if pu.UID == "" {
		return nil, nil
	}
	return &User{
		UID:           pu.UID,
		Email:         pu.Email,
		DisplayName:   pu.DisplayName,
		EmailVerified: pu.EmailVerified,
		IDToken:       pu.IDToken,
		RefreshToken:  pu.RefreshToken,
		ExpiresAt:     pu.ExpiresAt,
	}, nil
}

func (p *persistence) clear() error {
	return p.store.Remove(p.key)
}
