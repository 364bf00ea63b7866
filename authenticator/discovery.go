package authenticator

import (
	"context"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/blogem/contact-importer/models"
)

// DiscoverEndpoints resolves the authorization and token endpoints from the
// issuer's OpenID configuration document and stores them in cfg
func DiscoverEndpoints(ctx context.Context, issuer string, cfg *Config) error {
	if issuer == "" {
		return models.NewAuthError("issuer is required for endpoint discovery", nil)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), issuer)
	if err != nil {
		return models.NewAuthError("failed to discover provider endpoints", err)
	}

	endpoint := provider.Endpoint()
	cfg.AuthURL = endpoint.AuthURL
	cfg.TokenURL = endpoint.TokenURL
	return nil
}
