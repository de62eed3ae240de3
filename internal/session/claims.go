// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of a provider ID token shown by status commands.
type Claims struct {
	jwt.RegisteredClaims
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// ParseClaims decodes token claims without verifying the signature.
// It is for display only; the login check never looks at token contents.
func ParseClaims(token string) (*Claims, error) {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	if c.UserID == "" {
		c.UserID = c.Subject
	}
	return &c, nil
}

// Expired reports whether the token expiry lies before now. Tokens without exp never expire.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}
