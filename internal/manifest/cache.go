// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import "sync"

var (
	// Global cache of manifests keyed by auth domain.
	// Lives only in process memory and is cleared when CLI exits.
	globalCache     = map[string]*Manifest{}
	globalCacheLock sync.RWMutex
)

// GetCached returns the cached manifest for authDomain, or nil if not cached.
func GetCached(authDomain string) *Manifest {
	globalCacheLock.RLock()
	defer globalCacheLock.RUnlock()
	return globalCache[authDomain]
}

// SetCached stores the manifest in RAM.
func SetCached(authDomain string, m *Manifest) {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache[authDomain] = m
}

// ClearCache removes all manifests from RAM (primarily for testing).
func ClearCache() {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = map[string]*Manifest{}
}
