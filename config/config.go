package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/blogem/contact-importer/models"
)

// Config holds the runtime configuration of the importer
type Config struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	AuthURL  string `env:"GOOGLE_AUTH_URL"  envDefault:"https://accounts.google.com/o/oauth2/auth"`
	TokenURL string `env:"GOOGLE_TOKEN_URL" envDefault:"https://accounts.google.com/o/oauth2/token"`
	Scope    string `env:"GOOGLE_SCOPE"     envDefault:"https://www.googleapis.com/auth/contacts.readonly"`
	// Issuer enables OpenID discovery of the auth and token endpoints when set
	Issuer string `env:"GOOGLE_ISSUER"`

	FeedURL      string `env:"CONTACTS_FEED_URL"    envDefault:"https://www.google.com/m8/feeds/contacts/default/full"`
	MaxResults   int    `env:"CONTACTS_MAX_RESULTS" envDefault:"2000"`
	GDataVersion string `env:"GDATA_VERSION"        envDefault:"3.0"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	Port        string        `env:"PORT"         envDefault:"8080"`
	DBPath      string        `env:"DB_PATH"`
	LogLevel    string        `env:"LOG_LEVEL"    envDefault:"info"`
}

// Load reads the optional env files, then decodes the environment into a Config.
// Missing env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return &cfg, nil
}

// Credentials returns the OAuth client registration
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
	}
}

// Validate checks the settings every command needs
func (c *Config) Validate() error {
	if err := c.Credentials().Validate(); err != nil {
		return err
	}
	if c.Issuer == "" {
		if c.AuthURL == "" {
			return errors.New("auth URL is required")
		}
		if c.TokenURL == "" {
			return errors.New("token URL is required")
		}
	}
	if c.FeedURL == "" {
		return errors.New("contacts feed URL is required")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max results must be positive, got %d", c.MaxResults)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
