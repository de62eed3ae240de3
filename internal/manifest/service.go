package manifest

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"

	"fashionstore/cli/internal/httperrors"
)

// Resolve returns the web config for authDomain, using the RAM cache if available.
// If not cached, it fetches init.json and caches the result.
func Resolve(ctx context.Context, authDomain string) (*Manifest, error) {
	if authDomain == "" {
		return nil, fmt.Errorf("manifest: auth domain is empty")
	}
	if cached := GetCached(authDomain); cached != nil {
		return cached, nil
	}

	manifest, err := fetchFromServer(ctx, authDomain)
	if err != nil {
		return nil, formatServerError(authDomain, err)
	}

	SetCached(authDomain, manifest)
	return manifest, nil
}

// formatServerError creates user-friendly error messages for manifest fetch failures.
func formatServerError(authDomain string, err error) error {
	host := httperrors.ExtractHostFromURL(InitURL(authDomain))
	pterm.Error.Printfln("Cannot load Firebase configuration from %s", host)
	pterm.Println()
	pterm.Info.Println("Please check:")
	pterm.Println("  • The auth_domain in your config is a Firebase Hosting domain")
	pterm.Println("  • Your internet connection")
	pterm.Println("  • Or set FASHIONSTORE_FIREBASE_API_KEY directly")
	pterm.Println()

	return fmt.Errorf("manifest unreachable: %w", err)
}
