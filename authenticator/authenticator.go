package authenticator

import (
	"context"
	"net/http"
	"time"

	"github.com/blogem/contact-importer/models"
)

const defaultTimeout = 30 * time.Second

// Default Google endpoints and the read-only contacts permission
const (
	GoogleAuthURL       = "https://accounts.google.com/o/oauth2/auth"
	GoogleTokenURL      = "https://accounts.google.com/o/oauth2/token"
	GoogleIssuer        = "https://accounts.google.com"
	ContactsReadOnlyURI = "https://www.googleapis.com/auth/contacts.readonly"
)

// Config holds OAuth provider configuration
type Config struct {
	Credentials models.Credentials
	AuthURL     string
	TokenURL    string
	Scope       string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	GetAuthURL() string
	ExchangeCode(ctx context.Context, code string) (models.AccessToken, error)
}
