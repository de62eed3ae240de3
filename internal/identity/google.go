// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/sync/errgroup"

	"fashionstore/cli/internal/logging"
)

const defaultGoogleTimeout = 5 * time.Minute

const callbackPage = `<!doctype html><html><body style="font-family:sans-serif">
<p>Signed in. You can close this window and return to the terminal.</p></body></html>`

// GoogleFlow is the terminal equivalent of the Google sign-in popup: an OAuth 2.0
// authorization code flow with PKCE and a loopback redirect on 127.0.0.1.
type GoogleFlow struct {
	config  oauth2.Config
	open    func(url string) error
	listen  func() (net.Listener, error)
	timeout time.Duration
	log     *slog.Logger
}

var _ IDPTokenSource = (*GoogleFlow)(nil)

// GoogleOption customizes a GoogleFlow.
type GoogleOption func(*GoogleFlow)

// WithOpener replaces the browser launcher.
func WithOpener(open func(url string) error) GoogleOption {
	return func(g *GoogleFlow) { g.open = open }
}

// WithEndpoint replaces the Google OAuth endpoint.
func WithEndpoint(ep oauth2.Endpoint) GoogleOption {
	return func(g *GoogleFlow) { g.config.Endpoint = ep }
}

// WithTimeout bounds how long the flow waits for the browser callback.
func WithTimeout(d time.Duration) GoogleOption {
	return func(g *GoogleFlow) { g.timeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) GoogleOption {
	return func(g *GoogleFlow) { g.log = l }
}

// NewGoogleFlow builds a flow for the given OAuth client.
func NewGoogleFlow(clientID, clientSecret string, opts ...GoogleOption) *GoogleFlow {
	g := &GoogleFlow{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		open: browser.OpenURL,
		listen: func() (net.Listener, error) {
			return net.Listen("tcp", "127.0.0.1:0")
		},
		timeout: defaultGoogleTimeout,
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// IDToken runs the consent flow and returns the Google ID token and the redirect URI used.
func (g *GoogleFlow) IDToken(ctx context.Context) (string, string, error) {
	ln, err := g.listen()
	if err != nil {
		return "", "", fmt.Errorf("start callback listener: %w", err)
	}

	cfg := g.config
	cfg.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		if e := q.Get("error"); e != "" {
			select {
			case errCh <- newError(CodePopupClosedByUser, fmt.Errorf("google: %s", e)):
			default:
			}
			http.Error(w, "sign-in was cancelled", http.StatusOK)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		select {
		case codeCh <- code:
		default:
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(callbackPage))
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	waitCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	eg, egCtx := errgroup.WithContext(waitCtx)
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var code string
	eg.Go(func() error {
		defer func() { _ = srv.Shutdown(context.Background()) }()
		select {
		case code = <-codeCh:
			return nil
		case err := <-errCh:
			return err
		case <-egCtx.Done():
			if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
				return newError(CodeTimeout, waitCtx.Err())
			}
			return newError(CodePopupClosedByUser, egCtx.Err())
		}
	})

	g.log.Info("opening browser for Google sign-in", "url", authURL)
	if err := g.open(authURL); err != nil {
		g.log.Warn("could not open browser; visit the URL manually", "url", authURL, "err", err)
	}

	if err := eg.Wait(); err != nil {
		return "", "", err
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", "", newError("INVALID_IDP_RESPONSE", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", "", newError("INVALID_IDP_RESPONSE : Google did not return an ID token", nil)
	}
	return idToken, cfg.RedirectURL, nil
}
