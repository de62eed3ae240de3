// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package navigate turns "go to this page" intents into a browser launch or a printed link.
package navigate

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/browser"
)

// Routes of the storefront web app.
const (
	RouteProducts = "/show_products"
	RouteRoot     = "/"
)

// Navigator receives navigation intents.
type Navigator interface {
	Navigate(route string)
}

// Browser resolves routes against the storefront base URL. When Open is set the page
// is launched in the default browser; otherwise, or when launching fails, the URL is
// printed to Out.
type Browser struct {
	AppURL string
	Open   bool
	Out    io.Writer

	open func(string) error
}

var _ Navigator = (*Browser)(nil)

// NewBrowser returns a Browser using pkg/browser to launch pages.
func NewBrowser(appURL string, open bool, out io.Writer) *Browser {
	return &Browser{AppURL: appURL, Open: open, Out: out, open: browser.OpenURL}
}

// Resolve joins route onto AppURL.
func (b *Browser) Resolve(route string) string {
	base, err := url.Parse(strings.TrimRight(b.AppURL, "/") + "/")
	if err != nil || base.Host == "" {
		return route
	}
	ref, err := url.Parse(strings.TrimLeft(route, "/"))
	if err != nil {
		return route
	}
	return base.ResolveReference(ref).String()
}

func (b *Browser) Navigate(route string) {
	target := b.Resolve(route)
	if b.Open && b.open != nil {
		if err := b.open(target); err == nil {
			return
		}
	}
	if b.Out != nil {
		fmt.Fprintf(b.Out, "→ %s\n", target)
	}
}

// Recorder keeps every navigated route in order.
type Recorder struct {
	Routes []string
}

var _ Navigator = (*Recorder)(nil)

func (r *Recorder) Navigate(route string) { r.Routes = append(r.Routes, route) }

// Last returns the most recent route, or "" if none.
func (r *Recorder) Last() string {
	if len(r.Routes) == 0 {
		return ""
	}
	return r.Routes[len(r.Routes)-1]
}
