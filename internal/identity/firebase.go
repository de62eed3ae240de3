// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"fashionstore/cli/internal/logging"
	"fashionstore/cli/internal/session"
)

const (
	// DefaultIdentityURL is the Identity Toolkit v1 base.
	DefaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"
	// DefaultTokenURL is the Secure Token v1 base.
	DefaultTokenURL = "https://securetoken.googleapis.com/v1"

	// tokenRefreshSkew refreshes ID tokens this long before they expire.
	tokenRefreshSkew = 5 * time.Minute
)

// IDPTokenSource obtains an ID token from a federated identity provider.
// requestURI is the redirect URI the token was issued for.
type IDPTokenSource interface {
	IDToken(ctx context.Context) (idToken string, requestURI string, err error)
}

// FirebaseOptions configures a Firebase provider.
type FirebaseOptions struct {
	APIKey string
	// IdentityURL and TokenURL override the Google endpoints (emulator, tests).
	IdentityURL string
	TokenURL    string
	HTTPClient  *http.Client
	// Google supplies Google ID tokens for SignInWithGoogle. Nil disables it.
	Google IDPTokenSource
	// Persistence keeps the signed-in user across processes. Nil keeps it in memory only.
	Persistence session.Store
	Logger      *slog.Logger
}

// Firebase implements Provider over the Firebase Auth REST API.
type Firebase struct {
	apiKey      string
	identityURL string
	tokenURL    string
	client      *http.Client
	google      IDPTokenSource
	persist     *persistence
	log         *slog.Logger
	now         func() time.Time

	mu      sync.RWMutex
	current *User
	loaded  bool
}

var _ Provider = (*Firebase)(nil)

// NewFirebase constructs a Firebase provider.
func NewFirebase(opts FirebaseOptions) *Firebase {
	f := &Firebase{
		apiKey:      opts.APIKey,
		identityURL: strings.TrimRight(opts.IdentityURL, "/"),
		tokenURL:    strings.TrimRight(opts.TokenURL, "/"),
		client:      opts.HTTPClient,
		google:      opts.Google,
		log:         opts.Logger,
		now:         time.Now,
	}
	if f.identityURL == "" {
		f.identityURL = DefaultIdentityURL
	}
	if f.tokenURL == "" {
		f.tokenURL = DefaultTokenURL
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: 15 * time.Second}
	}
	if f.log == nil {
		f.log = logging.Discard()
	}
	if opts.Persistence != nil {
		f.persist = &persistence{store: opts.Persistence, key: persistenceKey(opts.APIKey)}
	}
	return f
}

// authResponse covers signUp, signInWithPassword, signInWithIdp and update responses.
type authResponse struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
	IDToken       string `json:"idToken"`
	RefreshToken  string `json:"refreshToken"`
	ExpiresIn     string `json:"expiresIn"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		DisplayName   string `json:"displayName"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"users"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// errorEnvelope is the REST error body: {"error":{"code":400,"message":"EMAIL_EXISTS"}}.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword authenticates with email and password.
func (f *Firebase) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	err := f.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return f.signedIn(out)
}

// CreateUser creates an email/password account and signs it in.
func (f *Firebase) CreateUser(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	err := f.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return f.signedIn(out)
}

// SignInWithGoogle obtains a Google ID token and exchanges it for a Firebase session.
func (f *Firebase) SignInWithGoogle(ctx context.Context) (*User, error) {
	if f.google == nil {
		return nil, newError(CodeOperationNotAllowed+" : Google sign-in is not configured", nil)
	}
	idToken, requestURI, err := f.google.IDToken(ctx)
	if err != nil {
		return nil, err
	}

	postBody := url.Values{}
	postBody.Set("id_token", idToken)
	postBody.Set("providerId", "google.com")

	var out authResponse
	err = f.call(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return f.signedIn(out)
}

// SignOut forgets the current user locally. The REST API has no session to revoke.
func (f *Firebase) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.current = nil
	f.loaded = true
	f.mu.Unlock()

	if f.persist != nil {
		return f.persist.clear()
	}
	return nil
}

// SendPasswordResetEmail asks the provider to email a reset link.
func (f *Firebase) SendPasswordResetEmail(ctx context.Context, email string) error {
	return f.call(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// SendEmailVerification asks the provider to email a verification link to u.
func (f *Firebase) SendEmailVerification(ctx context.Context, u *User) error {
	token, err := f.IDToken(ctx, u)
	if err != nil {
		return err
	}
	return f.call(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     token,
	}, nil)
}

// UpdatePassword changes the password of u. The provider issues fresh tokens.
func (f *Firebase) UpdatePassword(ctx context.Context, u *User, password string) error {
	return f.update(ctx, u, map[string]any{"password": password, "returnSecureToken": true}, nil)
}

// UpdateProfile sets the display name of u.
func (f *Firebase) UpdateProfile(ctx context.Context, u *User, displayName string) error {
	body := map[string]any{"returnSecureToken": false}
	if displayName == "" {
		body["deleteAttribute"] = []string{"DISPLAY_NAME"}
	} else {
		body["displayName"] = displayName
	}
	return f.update(ctx, u, body, func(u *User, _ authResponse) {
		u.DisplayName = displayName
	})
}

// UpdateEmail changes the email of u; the new address starts unverified.
func (f *Firebase) UpdateEmail(ctx context.Context, u *User, email string) error {
	return f.update(ctx, u, map[string]any{"email": email, "returnSecureToken": true}, func(u *User, out authResponse) {
		u.Email = email
		if out.Email != "" {
			u.Email = out.Email
		}
		u.EmailVerified = false
	})
}

// Reload refreshes the provider-side profile of u.
func (f *Firebase) Reload(ctx context.Context, u *User) error {
	if u == nil {
		return ErrNoCurrentUser
	}
	token, err := f.IDToken(ctx, u)
	if err != nil {
		return err
	}
	var out lookupResponse
	if err := f.call(ctx, "accounts:lookup", map[string]any{"idToken": token}, &out); err != nil {
		return err
	}
	if len(out.Users) == 0 {
		return newError(CodeUserNotFound, nil)
	}
	rec := out.Users[0]

	f.mu.Lock()
	u.Email = rec.Email
	u.DisplayName = rec.DisplayName
	u.EmailVerified = rec.EmailVerified
	f.mu.Unlock()

	return f.persistIfCurrent(u)
}

// IDToken returns the ID token of u, refreshing it via the Secure Token API when
// it expires within tokenRefreshSkew.
func (f *Firebase) IDToken(ctx context.Context, u *User) (string, error) {
	if u == nil {
		return "", ErrNoCurrentUser
	}
	f.mu.RLock()
	token, refresh, exp := u.IDToken, u.RefreshToken, u.ExpiresAt
	f.mu.RUnlock()

	if token != "" && f.now().Add(tokenRefreshSkew).Before(exp) {
		return token, nil
	}
	if refresh == "" {
		if token != "" {
			return token, nil
		}
		return "", newError("auth/user-token-expired", nil)
	}

	out, err := f.refresh(ctx, refresh)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	u.IDToken = out.IDToken
	if out.RefreshToken != "" {
		u.RefreshToken = out.RefreshToken
	}
	u.ExpiresAt = f.expiry(out.ExpiresIn)
	f.mu.Unlock()

	if err := f.persistIfCurrent(u); err != nil {
		f.log.Warn("persist refreshed session", "err", err)
	}
	return out.IDToken, nil
}

// CurrentUser returns the signed-in user, restoring it from persistence on first use.
func (f *Firebase) CurrentUser() *User {
	f.mu.RLock()
	if f.loaded {
		defer f.mu.RUnlock()
		return f.current
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded {
		f.loaded = true
		if f.persist != nil {
			u, err := f.persist.load()
			if err != nil {
				f.log.Debug("restore persisted user", "err", err)
			}
			f.current = u
		}
	}
	return f.current
}

func (f *Firebase) signedIn(out authResponse) (*User, error) {
	u := &User{
		UID:           out.LocalID,
		Email:         out.Email,
		DisplayName:   out.DisplayName,
		EmailVerified: out.EmailVerified,
		IDToken:       out.IDToken,
		RefreshToken:  out.RefreshToken,
		ExpiresAt:     f.expiry(out.ExpiresIn),
	}

	f.mu.Lock()
	f.current = u
	f.loaded = true
	f.mu.Unlock()

	if f.persist != nil {
		if err := f.persist.save(u); err != nil {
			f.log.Warn("persist signed-in user", "err", err)
		}
	}
	return u, nil
}

// update posts accounts:update for u and applies fresh tokens plus apply(u, out).
func (f *Firebase) update(ctx context.Context, u *User, body map[string]any, apply func(*User, authResponse)) error {
	if u == nil {
		return ErrNoCurrentUser
	}
	token, err := f.IDToken(ctx, u)
	if err != nil {
		return err
	}
	body["idToken"] = token

	var out authResponse
	if err := f.call(ctx, "accounts:update", body, &out); err != nil {
		return err
	}

	f.mu.Lock()
	if out.IDToken != "" {
		u.IDToken = out.IDToken
		u.ExpiresAt = f.expiry(out.ExpiresIn)
	}
	if out.RefreshToken != "" {
		u.RefreshToken = out.RefreshToken
	}
	if apply != nil {
		apply(u, out)
	}
	f.mu.Unlock()

	return f.persistIfCurrent(u)
}

func (f *Firebase) persistIfCurrent(u *User) error {
	if f.persist == nil {
		return nil
	}
	f.mu.RLock()
	isCurrent := f.current == u
	f.mu.RUnlock()
	if !isCurrent {
		return nil
	}
	return f.persist.save(u)
}

func (f *Firebase) expiry(expiresIn string) time.Time {
	secs, err := strconv.Atoi(strings.TrimSpace(expiresIn))
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return f.now().Add(time.Duration(secs) * time.Second)
}

// call posts a JSON body to {identityURL}/{method}?key=... and decodes into out.
func (f *Firebase) call(ctx context.Context, method string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := f.identityURL + "/" + method + "?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return f.do(req, method, out)
}

func (f *Firebase) refresh(ctx context.Context, refreshToken string) (refreshResponse, error) {
	var out refreshResponse
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := f.tokenURL + "/token?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	err = f.do(req, "token", &out)
	return out, err
}

func (f *Firebase) do(req *http.Request, method string, out any) error {
	f.log.Debug("identity request", "method", method)

	resp, err := f.client.Do(req)
	if err != nil {
		return &Error{
			Code:    CodeNetworkRequestFailed,
			Message: fmt.Sprintf("Firebase: Error (%s).", CodeNetworkRequestFailed),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var env errorEnvelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Error.Message == "" {
			return newError("", fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, logging.Mask(strings.TrimSpace(string(raw)))))
		}
		return newError(env.Error.Message, fmt.Errorf("%s: status %d", method, resp.StatusCode))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError("", fmt.Errorf("%s: decode response: %w", method, err))
	}
	return nil
}
