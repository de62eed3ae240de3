// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides the OS keychain backed session store for fashionstore.
// This module manages all interactions with the OS keychain/credential store and
// exposes them through the session.Store contract used by the auth client.
//
// The package supports macOS Keychain, Windows Credential Manager, Secret Service,
// pass and an encrypted file fallback, with thread-safe operations.
package keychain

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"fashionstore/cli/internal/session"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "fashionstore"

// Backend names accepted by Options.Backend.
const (
	BackendNative = "keychain"
	BackendFile   = "file"
)

// Manager provides centralized, thread-safe operations for the OS keychain.
// It implements session.Store.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

var _ session.Store = (*Manager)(nil)

// keychainBackend defines the interface for native command-line keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Options selects and configures the keyring backend.
type Options struct {
	// Backend is BackendNative (default) or BackendFile.
	Backend string
	// FileDir is where the encrypted file keyring lives when Backend is BackendFile.
	FileDir string
	// FilePassword unlocks the file keyring. Empty means prompt on the terminal.
	FilePassword string
	Logger       *slog.Logger
}

// NewManager creates a new keychain manager with the configured keyring opened.
func NewManager(opts Options) (*Manager, error) {
	if opts.Backend == "" || opts.Backend == BackendNative {
		// Try native security backend first on macOS
		if runtime.GOOS == "darwin" {
			backend, err := newSecurityBackend(opts.Logger)
			if err == nil {
				return &Manager{backend: backend}, nil
			}
			// Fall through to keyring library if security command fails
		}
	}

	ring, err := openRing(opts)
	if err != nil {
		return nil, err
	}
	return NewWithRing(ring), nil
}

// NewWithRing wraps an already opened keyring. Tests pass keyring.NewArrayKeyring.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the keyring for the selected backend.
func openRing(opts Options) (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:             ServiceName,
		PassPrefix:              ServiceName,
		LibSecretCollectionName: ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
	}

	switch opts.Backend {
	case BackendFile:
		if opts.FileDir == "" {
			return nil, errors.New("file keyring requires a directory")
		}
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		cfg.FileDir = opts.FileDir
		if opts.FilePassword != "" {
			cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
		} else {
			cfg.FilePasswordFunc = keyring.TerminalPrompt
		}
	case "", BackendNative:
		switch runtime.GOOS {
		case "darwin":
			// Pass requires 'pass' utility installed: brew install pass
			cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
		case "windows":
			cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
			cfg.WinCredPrefix = ServiceName
		default:
			cfg.AllowedBackends = []keyring.BackendType{
				keyring.SecretServiceBackend,
				keyring.KWalletBackend,
				keyring.PassBackend,
			}
		}
	default:
		return nil, fmt.Errorf("unknown keyring backend %q", opts.Backend)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' (brew install pass gnupg && pass init <gpg-key-id>) or set session.backend: file")
		}
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// Set stores value under key.
// This method is thread-safe.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

// Get retrieves the value under key, or session.ErrNotFound.
// This method is thread-safe.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(key)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", session.ErrNotFound
		}
		return v, nil
	}

	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", session.ErrNotFound
	}
	return string(it.Data), nil
}

// Remove deletes key. Missing keys are ignored.
// This method is thread-safe.
func (m *Manager) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(key)
	}
	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

// ClearAll removes every session entry this CLI writes.
// This method is thread-safe and should be used with caution.
func (m *Manager) ClearAll(keys ...string) error {
	var errs []error
	for _, k := range keys {
		if err := m.Remove(k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
