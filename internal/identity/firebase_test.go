// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"fashionstore/cli/internal/session"
)

// memStore is an in-memory session.Store.
type memStore struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemStore() *memStore { return &memStore{m: map[string]string{}} }

func (s *memStore) Set(k, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[k] = v
	return nil
}

func (s *memStore) Get(k string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[k]
	if !ok {
		return "", session.ErrNotFound
	}
	return v, nil
}

func (s *memStore) Remove(k string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, k)
	return nil
}

// fakeToolkit emulates the Identity Toolkit and Secure Token endpoints.
type fakeToolkit struct {
	mu       sync.Mutex
	calls    map[string]int
	bodies   map[string]map[string]any
	forms    map[string]url.Values
	handlers map[string]func(body map[string]any) (int, any)
}

func newFakeToolkit() *fakeToolkit {
	return &fakeToolkit{
		calls:    map[string]int{},
		bodies:   map[string]map[string]any{},
		forms:    map[string]url.Values{},
		handlers: map[string]func(map[string]any) (int, any){},
	}
}

func (f *fakeToolkit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/")
	if r.URL.Query().Get("key") != "test-key" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key."}}`))
		return
	}

	body := map[string]any{}
	f.mu.Lock()
	f.calls[method]++
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		_ = r.ParseForm()
		f.forms[method] = r.PostForm
	} else {
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies[method] = body
	}
	h := f.handlers[method]
	f.mu.Unlock()

	if h == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	status, out := h(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(out)
}

func (f *fakeToolkit) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeToolkit) body(method string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[method]
}

func restError(msg string) map[string]any {
	return map[string]any{"error": map[string]any{"code": 400, "message": msg}}
}

func newTestFirebase(t *testing.T, fk *fakeToolkit, store session.Store, google IDPTokenSource) *Firebase {
	t.Helper()
	srv := httptest.NewServer(fk)
	t.Cleanup(srv.Close)
	return NewFirebase(FirebaseOptions{
		APIKey:      "test-key",
		IdentityURL: srv.URL,
		TokenURL:    srv.URL,
		HTTPClient:  srv.Client(),
		Google:      google,
		Persistence: store,
	})
}

func signInHandler(uid, email string) func(map[string]any) (int, any) {
	return func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{
			"localId":      uid,
			"email":        email,
			"idToken":      "id-" + uid,
			"refreshToken": "rt-" + uid,
			"expiresIn":    "3600",
		}
	}
}

func TestSignInWithPasswordPersistsUser(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:signInWithPassword"] = signInHandler("uid-1", "a@x.com")
	store := newMemStore()
	f := newTestFirebase(t, fk, store, nil)

	u, err := f.SignInWithPassword(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("SignInWithPassword() error = %v", err)
	}
	if u.UID != "uid-1" || u.IDToken != "id-uid-1" {
		t.Errorf("user = %+v", u)
	}
	if got := fk.body("accounts:signInWithPassword"); got["returnSecureToken"] != true || got["password"] != "pw" {
		t.Errorf("request body = %v", got)
	}
	if f.CurrentUser() != u {
		t.Errorf("CurrentUser() is not the signed-in user")
	}

	// A fresh provider restores the session from persistence.
	restored := NewFirebase(FirebaseOptions{APIKey: "test-key", Persistence: store})
	cu := restored.CurrentUser()
	if cu == nil || cu.UID != "uid-1" || cu.RefreshToken != "rt-uid-1" {
		t.Fatalf("restored CurrentUser() = %+v", cu)
	}
}

func TestSignInWithPasswordMapsErrors(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:signInWithPassword"] = func(map[string]any) (int, any) {
		return http.StatusBadRequest, restError("INVALID_LOGIN_CREDENTIALS")
	}
	f := newTestFirebase(t, fk, newMemStore(), nil)

	_, err := f.SignInWithPassword(context.Background(), "a@x.com", "bad")
	var ie *Error
	if !errors.As(err, &ie) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if ie.Code != "auth/invalid-credential" {
		t.Errorf("Code = %q, want auth/invalid-credential", ie.Code)
	}
	if ie.Error() != "Firebase: Error (auth/invalid-credential)." {
		t.Errorf("Message = %q", ie.Error())
	}
	if f.CurrentUser() != nil {
		t.Errorf("CurrentUser() set after failed sign-in")
	}
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantCode string
		wantMsg  string
	}{
		{"known code", "EMAIL_EXISTS", "auth/email-already-in-use", "Firebase: Error (auth/email-already-in-use)."},
		{"detail kept", "WEAK_PASSWORD : Password should be at least 6 characters", "auth/weak-password", "Firebase: Password should be at least 6 characters (auth/weak-password)."},
		{"unknown code", "QUOTA_EXCEEDED", "auth/quota-exceeded", "Firebase: Error (auth/quota-exceeded)."},
		{"client code", "auth/timeout", "auth/timeout", "Firebase: Error (auth/timeout)."},
		{"api key", "API key not valid. Please pass a valid API key.", "auth/invalid-api-key", "Firebase: Error (auth/invalid-api-key)."},
		{"empty", "", CodeInternalError, "Firebase: Error (auth/internal-error)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newError(tt.in, nil)
			if e.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", e.Code, tt.wantCode)
			}
			if e.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", e.Message, tt.wantMsg)
			}
		})
	}
}

func TestInvalidAPIKey(t *testing.T) {
	fk := newFakeToolkit()
	srv := httptest.NewServer(fk)
	defer srv.Close()
	f := NewFirebase(FirebaseOptions{APIKey: "wrong", IdentityURL: srv.URL, HTTPClient: srv.Client()})

	err := f.SendPasswordResetEmail(context.Background(), "a@x.com")
	var ie *Error
	if !errors.As(err, &ie) || ie.Code != "auth/invalid-api-key" {
		t.Errorf("error = %v, want auth/invalid-api-key", err)
	}
}

func TestSendPasswordResetEmail(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:sendOobCode"] = func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{"email": "a@x.com"}
	}
	f := newTestFirebase(t, fk, nil, nil)

	if err := f.SendPasswordResetEmail(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("SendPasswordResetEmail() error = %v", err)
	}
	body := fk.body("accounts:sendOobCode")
	if body["requestType"] != "PASSWORD_RESET" || body["email"] != "a@x.com" {
		t.Errorf("request body = %v", body)
	}
}

func TestIDTokenRefreshesNearExpiry(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["token"] = func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{
			"id_token":      "id-new",
			"refresh_token": "rt-new",
			"expires_in":    "3600",
			"user_id":       "uid-1",
		}
	}
	f := newTestFirebase(t, fk, nil, nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	fresh := &User{UID: "uid-1", IDToken: "id-old", RefreshToken: "rt-old", ExpiresAt: now.Add(time.Hour)}
	tok, err := f.IDToken(context.Background(), fresh)
	if err != nil || tok != "id-old" {
		t.Fatalf("IDToken(fresh) = %q, %v; want id-old", tok, err)
	}
	if fk.count("token") != 0 {
		t.Errorf("fresh token triggered a refresh")
	}

	stale := &User{UID: "uid-1", IDToken: "id-old", RefreshToken: "rt-old", ExpiresAt: now.Add(time.Minute)}
	tok, err = f.IDToken(context.Background(), stale)
	if err != nil || tok != "id-new" {
		t.Fatalf("IDToken(stale) = %q, %v; want id-new", tok, err)
	}
	if stale.RefreshToken != "rt-new" || !stale.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("user not updated: %+v", stale)
	}
	fk.mu.Lock()
	form := fk.forms["token"]
	fk.mu.Unlock()
	if form.Get("grant_type") != "refresh_token" || form.Get("refresh_token") != "rt-old" {
		t.Errorf("refresh form = %v", form)
	}
}

func TestIDTokenWithoutUser(t *testing.T) {
	f := NewFirebase(FirebaseOptions{APIKey: "k"})
	if _, err := f.IDToken(context.Background(), nil); !errors.Is(err, ErrNoCurrentUser) {
		t.Errorf("IDToken(nil) error = %v, want ErrNoCurrentUser", err)
	}
}

func TestUpdateProfileAndEmail(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:signUp"] = signInHandler("uid-2", "old@x.com")
	fk.handlers["accounts:update"] = func(body map[string]any) (int, any) {
		out := map[string]any{"localId": "uid-2"}
		if e, ok := body["email"].(string); ok {
			out["email"] = e
			out["idToken"] = "id-after-email"
			out["refreshToken"] = "rt-after-email"
			out["expiresIn"] = "3600"
		}
		return http.StatusOK, out
	}
	store := newMemStore()
	f := newTestFirebase(t, fk, store, nil)
	ctx := context.Background()

	u, err := f.CreateUser(ctx, "old@x.com", "pw")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if err := f.UpdateProfile(ctx, u, "Bob"); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if u.DisplayName != "Bob" {
		t.Errorf("DisplayName = %q, want Bob", u.DisplayName)
	}
	if body := fk.body("accounts:update"); body["displayName"] != "Bob" || body["idToken"] != "id-uid-2" {
		t.Errorf("update body = %v", body)
	}

	if err := f.UpdateProfile(ctx, u, ""); err != nil {
		t.Fatalf("UpdateProfile(empty) error = %v", err)
	}
	if body := fk.body("accounts:update"); body["deleteAttribute"] == nil {
		t.Errorf("empty display name should delete the attribute, body = %v", body)
	}

	if err := f.UpdateEmail(ctx, u, "new@x.com"); err != nil {
		t.Fatalf("UpdateEmail() error = %v", err)
	}
	if u.Email != "new@x.com" || u.IDToken != "id-after-email" || u.EmailVerified {
		t.Errorf("user after email update = %+v", u)
	}

	raw, _ := store.Get(persistenceKey("test-key"))
	if !strings.Contains(raw, "new@x.com") {
		t.Errorf("persisted user not updated: %s", raw)
	}
}

func TestReload(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:signInWithPassword"] = signInHandler("uid-3", "a@x.com")
	fk.handlers["accounts:lookup"] = func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{"users": []map[string]any{{
			"localId": "uid-3", "email": "a@x.com", "displayName": "Alice", "emailVerified": true,
		}}}
	}
	f := newTestFirebase(t, fk, nil, nil)
	ctx := context.Background()

	u, _ := f.SignInWithPassword(ctx, "a@x.com", "pw")
	if err := f.Reload(ctx, u); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if u.DisplayName != "Alice" || !u.EmailVerified {
		t.Errorf("user after reload = %+v", u)
	}

	fk.mu.Lock()
	fk.handlers["accounts:lookup"] = func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{"users": []any{}}
	}
	fk.mu.Unlock()
	var ie *Error
	if err := f.Reload(ctx, u); !errors.As(err, &ie) || ie.Code != CodeUserNotFound {
		t.Errorf("Reload(no users) error = %v, want %s", err, CodeUserNotFound)
	}
}

func TestSendEmailVerification(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:sendOobCode"] = func(map[string]any) (int, any) { return http.StatusOK, map[string]any{} }
	f := newTestFirebase(t, fk, nil, nil)

	u := &User{UID: "u", IDToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	if err := f.SendEmailVerification(context.Background(), u); err != nil {
		t.Fatalf("SendEmailVerification() error = %v", err)
	}
	body := fk.body("accounts:sendOobCode")
	if body["requestType"] != "VERIFY_EMAIL" || body["idToken"] != "tok" {
		t.Errorf("request body = %v", body)
	}
}

func TestSignOutClearsPersistence(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:signInWithPassword"] = signInHandler("uid-4", "a@x.com")
	store := newMemStore()
	f := newTestFirebase(t, fk, store, nil)

	_, _ = f.SignInWithPassword(context.Background(), "a@x.com", "pw")
	if err := f.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if f.CurrentUser() != nil {
		t.Errorf("CurrentUser() after SignOut = %+v", f.CurrentUser())
	}
	if _, err := store.Get(persistenceKey("test-key")); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("persisted user still present after SignOut")
	}
}

type staticIDP struct {
	token string
	uri   string
	err   error
}

func (s staticIDP) IDToken(context.Context) (string, string, error) { return s.token, s.uri, s.err }

func TestSignInWithGoogle(t *testing.T) {
	fk := newFakeToolkit()
	fk.handlers["accounts:signInWithIdp"] = func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{
			"localId":       "uid-g",
			"email":         "g@x.com",
			"displayName":   "Gina",
			"emailVerified": true,
			"idToken":       "id-g",
			"refreshToken":  "rt-g",
			"expiresIn":     "3600",
		}
	}
	f := newTestFirebase(t, fk, nil, staticIDP{token: "google-id-token", uri: "http://127.0.0.1:5555/callback"})

	u, err := f.SignInWithGoogle(context.Background())
	if err != nil {
		t.Fatalf("SignInWithGoogle() error = %v", err)
	}
	if u.UID != "uid-g" || u.DisplayName != "Gina" {
		t.Errorf("user = %+v", u)
	}
	body := fk.body("accounts:signInWithIdp")
	pb, _ := url.ParseQuery(body["postBody"].(string))
	if pb.Get("id_token") != "google-id-token" || pb.Get("providerId") != "google.com" {
		t.Errorf("postBody = %v", pb)
	}
	if body["requestUri"] != "http://127.0.0.1:5555/callback" {
		t.Errorf("requestUri = %v", body["requestUri"])
	}
}

func TestSignInWithGoogleNotConfigured(t *testing.T) {
	f := NewFirebase(FirebaseOptions{APIKey: "k"})
	var ie *Error
	if _, err := f.SignInWithGoogle(context.Background()); !errors.As(err, &ie) || ie.Code != CodeOperationNotAllowed {
		t.Errorf("error = %v, want %s", err, CodeOperationNotAllowed)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f := NewFirebase(FirebaseOptions{APIKey: "k", IdentityURL: base})
	_, err := f.SignInWithPassword(context.Background(), "a@x.com", "pw")
	var ie *Error
	if !errors.As(err, &ie) || ie.Code != CodeNetworkRequestFailed {
		t.Fatalf("error = %v, want %s", err, CodeNetworkRequestFailed)
	}
	if errors.Unwrap(ie) == nil {
		t.Errorf("network error should keep its cause")
	}
}
