package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "fashionstore/cli/internal/errors"
)

// UsersPath is the registration endpoint path.
const UsersPath = "/users"

// TokenSource returns the current session token, or "" when signed out.
type TokenSource func() string

// HTTP implements Registrar over the REST API.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:8080/api")
	baseURL string
	// tokens supplies the Authorization bearer token
	tokens TokenSource
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// newHTTP creates a new HTTP client with the given base URL.
// It configures a 10-second timeout for all requests.
func newHTTP(baseURL string, tokens TokenSource) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterUser calls POST /users with {email, name, firebaseId}.
// Any 2xx status is success; the response body is not consumed.
func (h *HTTP) RegisterUser(ctx context.Context, in RegistrationRequest) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+UsersPath, bytes.NewReader(b))
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.RegistrationFailed, "Network Error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.Wrap(apperrors.RegistrationFailed,
			fmt.Sprintf("Request failed with status code %d", resp.StatusCode),
			fmt.Errorf("register-user failed: %d %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// setStandardHeaders applies headers shared by every backend request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fashionstore-cli/1.0")
	if h.tokens != nil {
		if tok := h.tokens(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
}
