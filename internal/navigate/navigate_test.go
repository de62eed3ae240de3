package navigate

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		app   string
		route string
		want  string
	}{
		{"http://localhost:3000", RouteProducts, "http://localhost:3000/show_products"},
		{"http://localhost:3000/", RouteRoot, "http://localhost:3000/"},
		{"https://shop.example/store", RouteProducts, "https://shop.example/store/show_products"},
		{"", RouteProducts, RouteProducts},
	}
	for _, tt := range tests {
		b := &Browser{AppURL: tt.app}
		if got := b.Resolve(tt.route); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.app, tt.route, got, tt.want)
		}
	}
}

func TestNavigateOpensBrowser(t *testing.T) {
	var opened string
	var out bytes.Buffer
	b := &Browser{AppURL: "http://localhost:3000", Open: true, Out: &out,
		open: func(u string) error { opened = u; return nil }}

	b.Navigate(RouteProducts)
	if opened != "http://localhost:3000/show_products" {
		t.Errorf("opened = %q", opened)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestNavigatePrintsWhenDisabledOrFailing(t *testing.T) {
	tests := []struct {
		name string
		open bool
		fn   func(string) error
	}{
		{"disabled", false, func(string) error { t.Error("browser launched"); return nil }},
		{"launch fails", true, func(string) error { return errors.New("no display") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			b := &Browser{AppURL: "http://localhost:3000", Open: tt.open, Out: &out, open: tt.fn}
			b.Navigate(RouteRoot)
			if !strings.Contains(out.String(), "http://localhost:3000/") {
				t.Errorf("output = %q", out.String())
			}
		})
	}
}

func TestRecorderLast(t *testing.T) {
	var r Recorder
	if r.Last() != "" {
		t.Fatal("Last() on empty recorder")
	}
	r.Navigate(RouteProducts)
	r.Navigate(RouteRoot)
	if r.Last() != RouteRoot || len(r.Routes) != 2 {
		t.Errorf("Recorder = %+v", r.Routes)
	}
}
