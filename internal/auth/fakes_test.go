package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/99designs/keyring"

	"fashionstore/cli/internal/backend"
	"fashionstore/cli/internal/identity"
	"fashionstore/cli/internal/keychain"
	"fashionstore/cli/internal/navigate"
	"fashionstore/cli/internal/notify"
	"fashionstore/cli/internal/session"
)

// fakeProvider is an in-memory identity.Provider. Each *Err field makes the matching
// call fail; calls records method names in order.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string

	current *identity.User
	next    *identity.User
	tokens  map[string]string

	signInErr, createErr, googleErr, signOutErr, resetErr   error
	verifyErr, passwordErr, profileErr, emailErr, reloadErr error
	tokenErr                                                error
}

func newFakeProvider(next *identity.User) *fakeProvider {
	return &fakeProvider{next: next, tokens: map[string]string{}}
}

func (f *fakeProvider) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeProvider) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeProvider) signIn(err error) (*identity.User, error) {
	if err != nil {
		return nil, err
	}
	u := *f.next
	f.current = &u
	return f.current, nil
}

func (f *fakeProvider) SignInWithGoogle(context.Context) (*identity.User, error) {
	f.record("SignInWithGoogle")
	return f.signIn(f.googleErr)
}

func (f *fakeProvider) SignInWithPassword(context.Context, string, string) (*identity.User, error) {
	f.record("SignInWithPassword")
	return f.signIn(f.signInErr)
}

func (f *fakeProvider) CreateUser(_ context.Context, email, _ string) (*identity.User, error) {
	f.record("CreateUser")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.next.Email = email
	return f.signIn(nil)
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.record("SignOut")
	f.current = nil
	return f.signOutErr
}

func (f *fakeProvider) SendPasswordResetEmail(context.Context, string) error {
	f.record("SendPasswordResetEmail")
	return f.resetErr
}

func (f *fakeProvider) SendEmailVerification(context.Context, *identity.User) error {
	f.record("SendEmailVerification")
	return f.verifyErr
}

func (f *fakeProvider) UpdatePassword(context.Context, *identity.User, string) error {
	f.record("UpdatePassword")
	return f.passwordErr
}

func (f *fakeProvider) UpdateProfile(_ context.Context, u *identity.User, name string) error {
	f.record("UpdateProfile")
	if f.profileErr != nil {
		return f.profileErr
	}
	u.DisplayName = name
	return nil
}

func (f *fakeProvider) UpdateEmail(_ context.Context, u *identity.User, email string) error {
	f.record("UpdateEmail")
	if f.emailErr != nil {
		return f.emailErr
	}
	u.Email = email
	return nil
}

func (f *fakeProvider) Reload(context.Context, *identity.User) error {
	f.record("Reload")
	return f.reloadErr
}

func (f *fakeProvider) IDToken(_ context.Context, u *identity.User) (string, error) {
	f.record("IDToken")
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return u.IDToken, nil
}

func (f *fakeProvider) CurrentUser() *identity.User { return f.current }

type fakeRegistrar struct {
	requests []backend.RegistrationRequest
	err      error
}

func (r *fakeRegistrar) RegisterUser(_ context.Context, req backend.RegistrationRequest) error {
	r.requests = append(r.requests, req)
	return r.err
}

// countingStore counts writes so tests can assert nothing was written.
type countingStore struct {
	session.Store
	sets    int
	removes int
	setErr  error
}

func (s *countingStore) Set(k, v string) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	return s.Store.Set(k, v)
}

func (s *countingStore) Remove(k string) error {
	s.removes++
	return s.Store.Remove(k)
}

type harness struct {
	client   *Client
	provider *fakeProvider
	reg      *fakeRegistrar
	store    *countingStore
	notes    *notify.Recorder
	nav      *navigate.Recorder
}

func newHarness() *harness {
	h := &harness{
		provider: newFakeProvider(&identity.User{
			UID:         "uid-1",
			Email:       "a@x.com",
			DisplayName: "Alice",
			IDToken:     "token-1",
		}),
		reg:   &fakeRegistrar{},
		store: &countingStore{Store: keychain.NewWithRing(keyring.NewArrayKeyring(nil))},
		notes: &notify.Recorder{},
		nav:   &navigate.Recorder{},
	}
	h.client = New(Deps{
		Provider:  h.provider,
		Registrar: h.reg,
		Store:     h.store,
		Notifier:  h.notes,
		Navigator: h.nav,
	})
	return h
}

func (h *harness) get(key string) string {
	v, _ := session.Lookup(h.store, key)
	return v
}

var errProvider = &identity.Error{Code: "auth/wrong-password", Message: "Firebase: Error (auth/wrong-password)."}

var errBoom = errors.New("boom")
