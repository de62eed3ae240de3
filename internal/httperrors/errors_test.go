package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassNone},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ClassTimeout},
		{"client timeout text", errors.New("Client.Timeout exceeded while awaiting headers"), ClassTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "identitytoolkit.invalid"}, ClassDNS},
		{"refused op error", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, ClassRefused},
		{"refused text", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), ClassRefused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), ClassTLS},
		{"server", errors.New("register-user failed: 503 service unavailable"), ClassServer},
		{"other", errors.New("unexpected EOF"), ClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatNetworkErrorWraps(t *testing.T) {
	if FormatNetworkError(nil, "signing in") != nil {
		t.Fatal("FormatNetworkError(nil) should be nil")
	}
	cause := errors.New("unexpected EOF")
	err := FormatNetworkError(cause, "signing in")
	if !errors.Is(err, cause) {
		t.Errorf("FormatNetworkError() = %v, want wrapped cause", err)
	}
}

func TestExtractHostFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://identitytoolkit.googleapis.com/v1/accounts:signUp", "identitytoolkit.googleapis.com"},
		{"http://localhost:8080/api", "localhost:8080"},
		{"::not a url", "server"},
		{"", "server"},
	}
	for _, tt := range tests {
		if got := ExtractHostFromURL(tt.in); got != tt.want {
			t.Errorf("ExtractHostFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
