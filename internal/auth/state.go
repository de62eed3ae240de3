package auth

import (
	apperrors "fashionstore/cli/internal/errors"
	"fashionstore/cli/internal/session"
)

// IsUserLoggedIn reports whether a session token is stored. The token is not
// validated and its expiry is not checked.
func (c *Client) IsUserLoggedIn() bool {
	token, err := session.Lookup(c.store, session.KeyAuthToken)
	if err != nil {
		c.log.Debug("session token unreadable", "err", err)
		return false
	}
	return token != ""
}

// Token returns the stored session token, or "" when there is none.
func (c *Client) Token() (string, error) {
	return c.lookup(session.KeyAuthToken)
}

// UserID returns the stored provider user id, or "" when there is none.
func (c *Client) UserID() (string, error) {
	return c.lookup(session.KeyUserID)
}

// DeleteLocalToken removes the stored session token. The user id is kept.
func (c *Client) DeleteLocalToken() error {
	if err := c.store.Remove(session.KeyAuthToken); err != nil {
		return apperrors.Wrap(apperrors.SessionUnavailable, "Could not clear the local session.", err)
	}
	return nil
}

func (c *Client) lookup(key string) (string, error) {
	v, err := session.Lookup(c.store, key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.SessionUnavailable, "Could not read the local session.", err)
	}
	return v, nil
}

func (c *Client) setLocalToken(token string) error {
	return c.set(session.KeyAuthToken, token)
}

func (c *Client) setUserID(uid string) error {
	return c.set(session.KeyUserID, uid)
}

func (c *Client) set(key, value string) error {
	if err := c.store.Set(key, value); err != nil {
		return apperrors.Wrap(apperrors.SessionUnavailable, "Could not save the local session.", err)
	}
	return nil
}
