// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest resolves the Firebase web configuration published by Firebase Hosting.
package manifest

import (
	"net/url"
	"strings"
)

// InitPath is where Firebase Hosting serves the project's web config.
const InitPath = "/__/firebase/init.json"

// Manifest is the Firebase web app configuration.
type Manifest struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket,omitempty"`
	MessagingSenderID string `json:"messagingSenderId,omitempty"`
	AppID             string `json:"appId,omitempty"`
	MeasurementID     string `json:"measurementId,omitempty"`
}

// InitURL builds the init.json URL for an auth domain. A bare host is served over
// https; a value with a scheme (emulators, tests) is used as is.
func InitURL(authDomain string) string {
	d := strings.TrimRight(strings.TrimSpace(authDomain), "/")
	if d == "" {
		return ""
	}
	if u, err := url.Parse(d); err == nil && u.Scheme != "" && u.Host != "" {
		return d + InitPath
	}
	return "https://" + d + InitPath
}
