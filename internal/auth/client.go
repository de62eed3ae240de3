// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth is the session façade used by the CLI commands.
//
// Client composes the identity provider, the backend registrar and the local session
// store. Each operation calls the provider, persists the session token and user id,
// optionally registers the user with the backend, and emits a navigation intent on
// success. Most operations report failures through the Notifier and the diagnostic
// logger; ReloadUser and UpdateProfile leave reporting to the caller. Every operation
// also returns its error.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"fashionstore/cli/internal/backend"
	apperrors "fashionstore/cli/internal/errors"
	"fashionstore/cli/internal/httperrors"
	"fashionstore/cli/internal/identity"
	"fashionstore/cli/internal/logging"
	"fashionstore/cli/internal/navigate"
	"fashionstore/cli/internal/notify"
	"fashionstore/cli/internal/session"
)

// User-facing notification texts.
const (
	MsgGenericFailure    = "Something went wrong!"
	MsgPasswordResetSent = "Password reset link sent! Please check your spam folder too. "
	MsgVerifyNewEmail    = "Please verify link sent to this email. Check in your spam!"
)

// Deps are the collaborators of a Client. Provider, Registrar and Store are required.
type Deps struct {
	Provider  identity.Provider
	Registrar backend.Registrar
	Store     session.Store
	Notifier  notify.Notifier
	Navigator navigate.Navigator
	Logger    *slog.Logger
}

// Client centralizes sign-in, sign-up and session operations.
// It adds no locking: overlapping calls race against the provider and the store.
type Client struct {
	provider  identity.Provider
	registrar backend.Registrar
	store     session.Store
	notifier  notify.Notifier
	navigator navigate.Navigator
	log       *slog.Logger
}

// New constructs a Client. Missing Notifier, Navigator or Logger are replaced by no-ops.
func New(d Deps) *Client {
	c := &Client{
		provider:  d.Provider,
		registrar: d.Registrar,
		store:     d.Store,
		notifier:  d.Notifier,
		navigator: d.Navigator,
		log:       d.Logger,
	}
	if c.notifier == nil {
		c.notifier = &notify.Recorder{}
	}
	if c.navigator == nil {
		c.navigator = &navigate.Recorder{}
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c
}

// Profile is the current user's editable profile. Password is always empty on read.
type Profile struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate is the input of UpdateProfile.
type ProfileUpdate struct {
	Email    string
	Password string
	Name     string
}

// SignInWithGoogle runs the interactive Google sign-in, stores the session, registers
// the user with the backend and navigates to the product list. Any failure is shown
// as a generic message.
func (c *Client) SignInWithGoogle(ctx context.Context) error {
	const op = "signInWithGoogle"

	u, err := c.provider.SignInWithGoogle(ctx)
	if err != nil {
		return c.fail(op, err, MsgGenericFailure)
	}
	token, err := c.provider.IDToken(ctx, u)
	if err != nil {
		return c.fail(op, err, MsgGenericFailure)
	}
	if err := c.setLocalToken(token); err != nil {
		return c.fail(op, err, MsgGenericFailure)
	}
	if err := c.setUserID(u.UID); err != nil {
		return c.fail(op, err, MsgGenericFailure)
	}

	err = c.registrar.RegisterUser(ctx, backend.RegistrationRequest{
		Email:      u.Email,
		Name:       u.DisplayName,
		FirebaseID: u.UID,
	})
	if err != nil {
		return c.fail(op, err, MsgGenericFailure)
	}

	c.navigator.Navigate(navigate.RouteProducts)
	return nil
}

// RegisterWithEmailAndPassword creates the account, stores the session, sends the
// verification email, registers the user with the backend, sets the display name and
// password, and navigates to the product list. Failures show the error's own message.
//
// A failure after the account exists (backend, profile) leaves the local session set.
func (c *Client) RegisterWithEmailAndPassword(ctx context.Context, name, email, password string) error {
	const op = "registerWithEmailAndPassword"

	u, err := c.provider.CreateUser(ctx, email, password)
	if err != nil {
		return c.fail(op, err, "")
	}
	token, err := c.provider.IDToken(ctx, u)
	if err != nil {
		return c.fail(op, err, "")
	}
	if err := c.setLocalToken(token); err != nil {
		return c.fail(op, err, "")
	}
	c.sendVerification(ctx, op, u)
	if err := c.setUserID(u.UID); err != nil {
		return c.fail(op, err, "")
	}

	err = c.registrar.RegisterUser(ctx, backend.RegistrationRequest{
		Email:      u.Email,
		Name:       name,
		FirebaseID: u.UID,
	})
	if err != nil {
		return c.fail(op, err, "")
	}

	// The email is unchanged, so no second verification is sent.
	if err := c.UpdateProfile(ctx, ProfileUpdate{Email: u.Email, Password: password, Name: name}); err != nil {
		return c.fail(op, err, "")
	}

	c.navigator.Navigate(navigate.RouteProducts)
	return nil
}

// LogInWithEmailAndPassword signs in, stores the session and navigates to the product
// list. On provider failure the local session is untouched.
func (c *Client) LogInWithEmailAndPassword(ctx context.Context, email, password string) error {
	const op = "logInWithEmailAndPassword"

	u, err := c.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return c.fail(op, err, "")
	}
	token, err := c.provider.IDToken(ctx, u)
	if err != nil {
		return c.fail(op, err, "")
	}
	if err := c.setLocalToken(token); err != nil {
		return c.fail(op, err, "")
	}
	if err := c.setUserID(u.UID); err != nil {
		return c.fail(op, err, "")
	}

	c.navigator.Navigate(navigate.RouteProducts)
	return nil
}

// SendPasswordReset asks the provider to email a reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	const op = "sendPasswordReset"

	if err := c.provider.SendPasswordResetEmail(ctx, email); err != nil {
		return c.fail(op, err, "")
	}
	c.notifier.Success(MsgPasswordResetSent)
	return nil
}

// UpdateUserPassword changes the password of the signed-in user.
func (c *Client) UpdateUserPassword(ctx context.Context, password string) error {
	const op = "updateUserPassword"

	u, err := c.currentUser()
	if err != nil {
		return c.fail(op, err, "")
	}
	if err := c.provider.UpdatePassword(ctx, u, password); err != nil {
		return c.fail(op, err, "")
	}
	return nil
}

// Logout ends the provider session, deletes the local token and navigates to the
// root page. It is best-effort: navigation happens even when a step fails, and the
// stored user id is left in place.
func (c *Client) Logout(ctx context.Context) error {
	const op = "logout"

	signOutErr := c.provider.SignOut(ctx)
	if signOutErr != nil {
		c.logFailure(op, signOutErr)
	}
	removeErr := c.DeleteLocalToken()
	if removeErr != nil {
		c.logFailure(op, removeErr)
	}

	c.navigator.Navigate(navigate.RouteRoot)
	return errors.Join(signOutErr, removeErr)
}

// ReloadUser refreshes the provider-side profile and re-stores the session token.
// Failures are returned, not reported.
func (c *Client) ReloadUser(ctx context.Context) error {
	u, err := c.currentUser()
	if err != nil {
		return err
	}
	token, err := c.provider.IDToken(ctx, u)
	if err != nil {
		return err
	}
	if err := c.provider.Reload(ctx, u); err != nil {
		return err
	}
	return c.setLocalToken(token)
}

// GetUserProfile returns the signed-in user's name and email.
func (c *Client) GetUserProfile() (Profile, error) {
	u, err := c.currentUser()
	if err != nil {
		return Profile{}, err
	}
	return Profile{Name: u.DisplayName, Email: u.Email}, nil
}

// UpdateProfile always sets the display name. The email is updated, and a new
// verification sent, only when it differs from the current one. A non-empty password
// goes through UpdateUserPassword, whose failure is reported there and does not stop
// the update. The session is reloaded last. Failures are returned, not reported.
func (c *Client) UpdateProfile(ctx context.Context, p ProfileUpdate) error {
	const op = "updateProfile"

	u, err := c.currentUser()
	if err != nil {
		return err
	}
	if err := c.provider.UpdateProfile(ctx, u, p.Name); err != nil {
		return err
	}
	if p.Email != u.Email {
		if err := c.provider.UpdateEmail(ctx, u, p.Email); err != nil {
			return err
		}
		c.sendVerification(ctx, op, u)
		c.notifier.Success(MsgVerifyNewEmail)
	}
	if p.Password != "" {
		_ = c.UpdateUserPassword(ctx, p.Password)
	}
	return c.ReloadUser(ctx)
}

func (c *Client) currentUser() (*identity.User, error) {
	u := c.provider.CurrentUser()
	if u == nil {
		return nil, apperrors.Wrap(apperrors.NoCurrentUser, "No user is signed in.", identity.ErrNoCurrentUser)
	}
	return u, nil
}

// sendVerification does not block the calling operation on failure.
func (c *Client) sendVerification(ctx context.Context, op string, u *identity.User) {
	if err := c.provider.SendEmailVerification(ctx, u); err != nil {
		c.log.Warn("email verification not sent", "op", op, "err", logging.Mask(err.Error()))
	}
}

// fail logs err and notifies the user. An empty msg shows the error's own message.
func (c *Client) fail(op string, err error, msg string) error {
	c.logFailure(op, err)
	if msg == "" {
		msg = apperrors.Message(err)
	}
	c.notifier.Error(msg)
	return err
}

func (c *Client) logFailure(op string, err error) {
	attrs := []any{"op", op, "err", logging.Mask(err.Error())}
	if class := httperrors.Classify(err); class != httperrors.ClassOther {
		attrs = append(attrs, "class", class)
	}
	c.log.Error("auth operation failed", attrs...)
}
