// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New creates a backend Registrar over HTTP.
// tokens may be nil; when set, its value is sent as a bearer token.
func New(baseURL string, tokens TokenSource) Registrar {
	return newHTTP(baseURL, tokens)
}
