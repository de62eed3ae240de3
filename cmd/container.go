// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"fashionstore/cli/internal/auth"
	"fashionstore/cli/internal/backend"
	"fashionstore/cli/internal/config"
	"fashionstore/cli/internal/identity"
	"fashionstore/cli/internal/keychain"
	"fashionstore/cli/internal/manifest"
	"fashionstore/cli/internal/navigate"
	"fashionstore/cli/internal/notify"
	"fashionstore/cli/internal/session"
	"fashionstore/cli/internal/xdg"
)

// container holds the services a command needs, built once per invocation.
type container struct {
	cfg      config.Config
	log      *slog.Logger
	store    session.Store
	provider identity.Provider
	client   *auth.Client

	closers []io.Closer
}

// loadConfig reads the config file selected by --config, or the default one.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// newContainer wires config, session store, identity provider, backend registrar
// and the auth client.
func newContainer(ctx context.Context) (*container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := newLogger(cfg)
	c := &container{cfg: cfg, log: log}

	if c.cfg.Firebase.APIKey == "" {
		m, err := manifest.Resolve(ctx, c.cfg.Firebase.AuthDomain)
		if err != nil {
			return nil, err
		}
		c.cfg.Firebase.APIKey = m.APIKey
		if c.cfg.Firebase.ProjectID == "" {
			c.cfg.Firebase.ProjectID = m.ProjectID
		}
		log.Debug("resolved firebase web config", "project", m.ProjectID)
	}

	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	c.store = store

	var google identity.IDPTokenSource
	if c.cfg.Google.ClientID != "" {
		google = identity.NewGoogleFlow(c.cfg.Google.ClientID, c.cfg.Google.ClientSecret,
			identity.WithLogger(log))
	}
	c.provider = identity.NewFirebase(identity.FirebaseOptions{
		APIKey:      c.cfg.Firebase.APIKey,
		IdentityURL: c.cfg.Firebase.IdentityURL,
		TokenURL:    c.cfg.Firebase.TokenURL,
		Google:      google,
		Persistence: store,
		Logger:      log,
	})

	registrar := backend.New(c.cfg.Backend.URL, func() string {
		tok, _ := session.Lookup(store, session.KeyAuthToken)
		return tok
	})

	c.client = auth.New(auth.Deps{
		Provider:  c.provider,
		Registrar: registrar,
		Store:     store,
		Notifier:  notify.NewConsole(os.Stderr),
		Navigator: navigate.NewBrowser(c.cfg.App.URL, c.cfg.App.OpenBrowser, os.Stdout),
		Logger:    log,
	})
	return c, nil
}

// openStore selects the session backend from config.
func (c *container) openStore() (session.Store, error) {
	s := c.cfg.Session
	switch s.Backend {
	case config.SessionRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		})
		c.closers = append(c.closers, rdb)
		return session.NewRedisStore(rdb, s.RedisPrefix), nil
	case config.SessionFile:
		dir := s.FileDir
		if dir == "" {
			state, err := xdg.StateDir()
			if err != nil {
				return nil, err
			}
			dir = state
		}
		return keychain.NewManager(keychain.Options{
			Backend:      keychain.BackendFile,
			FileDir:      dir,
			FilePassword: s.FilePassword,
			Logger:       c.log,
		})
	default:
		km, err := keychain.NewManager(keychain.Options{Logger: c.log})
		if err != nil {
			return nil, fmt.Errorf("open keychain: %w", err)
		}
		return km, nil
	}
}

// Close releases connections opened by the container.
func (c *container) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
