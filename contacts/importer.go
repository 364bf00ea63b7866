package contacts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/blogem/contact-importer/models"
)

const (
	// DefaultFeedURL is the Google Contacts (GData) feed of the authorized user
	DefaultFeedURL      = "https://www.google.com/m8/feeds/contacts/default/full"
	DefaultMaxResults   = 2000
	DefaultGDataVersion = "3.0"

	defaultTimeout = 30 * time.Second
	maxFeedBytes   = 64 << 20 // 64 MiB

	// the GData API expects "OAuth <token>" rather than "Bearer <token>"
	authScheme = "OAuth"
)

// Config holds the feed endpoint settings
type Config struct {
	FeedURL      string
	MaxResults   int
	GDataVersion string
	Timeout      time.Duration
	// HTTPClient's transport is reused for feed requests when set
	HTTPClient *http.Client
}

// Importer fetches and normalizes a user's contacts feed
type Importer struct {
	feedURL      string
	gdataVersion string
	timeout      time.Duration
	transport    http.RoundTripper
}

// NewImporter creates a new importer, filling unset settings with the Google defaults
func NewImporter(cfg Config) (*Importer, error) {
	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.GDataVersion == "" {
		cfg.GDataVersion = DefaultGDataVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	feedURL, err := url.Parse(cfg.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid contacts feed URL: %w", err)
	}
	query := feedURL.Query()
	query.Set("max-results", strconv.Itoa(cfg.MaxResults))
	feedURL.RawQuery = query.Encode()

	var transport http.RoundTripper
	if cfg.HTTPClient != nil {
		transport = cfg.HTTPClient.Transport
	}

	return &Importer{
		feedURL:      feedURL.String(),
		gdataVersion: cfg.GDataVersion,
		timeout:      cfg.Timeout,
		transport:    transport,
	}, nil
}

// FeedURL returns the fully built feed URL, including the result cap
func (i *Importer) FeedURL() string {
	return i.feedURL
}

// FetchRawFeed downloads the contacts feed document for the token's owner
func (i *Importer) FetchRawFeed(ctx context.Context, token models.AccessToken) (string, error) {
	if token == "" {
		return "", models.NewAuthError("access token is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.feedURL, nil)
	if err != nil {
		return "", models.NewTransportError("failed to build contacts feed request", err, 0)
	}
	req.Header.Set("GData-Version", i.gdataVersion)

	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token.String(),
				TokenType:   authScheme,
			}),
			Base: i.transport,
		},
		// the transport would resend the token to whatever host a redirect names
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", models.NewTransportError("contacts feed request failed", err, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", models.NewTransportError(
			fmt.Sprintf("contacts feed returned status %d", resp.StatusCode),
			nil,
			resp.StatusCode,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return "", models.NewTransportError("failed to read contacts feed", err, resp.StatusCode)
	}
	if len(body) > maxFeedBytes {
		return "", models.NewTransportError(
			fmt.Sprintf("contacts feed exceeds %d bytes", maxFeedBytes),
			nil,
			resp.StatusCode,
		)
	}

	return string(body), nil
}

// ImportContacts fetches the feed and normalizes it
func (i *Importer) ImportContacts(ctx context.Context, token models.AccessToken) ([]models.Contact, error) {
	raw, err := i.FetchRawFeed(ctx, token)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}
