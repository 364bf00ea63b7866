package authenticator

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/blogem/contact-importer/models"
)

// GoogleProvider implements the Provider interface for Google accounts
type GoogleProvider struct {
	config     oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
}

// NewGoogleProvider creates a new Google provider, filling unset endpoints with the Google defaults
func NewGoogleProvider(cfg Config) (*GoogleProvider, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = GoogleAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = GoogleTokenURL
	}
	if cfg.Scope == "" {
		cfg.Scope = ContactsReadOnlyURI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		client := *cfg.HTTPClient
		httpClient = &client
	}
	httpClient.Transport = &jsonBodyTransport{base: httpClient.Transport}

	conf := oauth2.Config{
		ClientID:     cfg.Credentials.ClientID,
		ClientSecret: cfg.Credentials.ClientSecret,
		RedirectURL:  cfg.Credentials.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
			// client_id and client_secret travel in the form body
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{cfg.Scope},
	}

	return &GoogleProvider{
		config:     conf,
		httpClient: httpClient,
		timeout:    cfg.Timeout,
	}, nil
}

// GetAuthURL returns the consent page URL carrying response_type, scope, redirect_uri and client_id
func (p *GoogleProvider) GetAuthURL() string {
	return p.config.AuthCodeURL("")
}

// ExchangeCode exchanges an authorization code for an access token
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (models.AccessToken, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", models.NewAuthError("authorization code is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	oauth2Token, err := p.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", models.NewAuthError("token endpoint rejected the authorization code", err)
		}
		return "", models.NewAuthError("failed to exchange authorization code", err)
	}

	if oauth2Token.AccessToken == "" {
		return "", models.NewAuthError("token response has no access_token", nil)
	}

	return models.AccessToken(oauth2Token.AccessToken), nil
}
