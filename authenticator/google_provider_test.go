package authenticator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/contact-importer/models"
)

func testCredentials() models.Credentials {
	return models.Credentials{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		RedirectURL:  "https://app.example/callback",
	}
}

func newTestProvider(t *testing.T, tokenURL string) *GoogleProvider {
	t.Helper()
	provider, err := NewGoogleProvider(Config{
		Credentials: testCredentials(),
		TokenURL:    tokenURL,
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return provider
}

func TestNewGoogleProviderValidatesCredentials(t *testing.T) {
	creds := testCredentials()
	creds.ClientSecret = ""

	_, err := NewGoogleProvider(Config{Credentials: creds})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client secret is required")
}

func TestGetAuthURL(t *testing.T) {
	provider := newTestProvider(t, "")

	authURL := provider.GetAuthURL()
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, "/o/oauth2/auth", parsed.Path)

	query := parsed.Query()
	assert.Len(t, query, 4)
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, ContactsReadOnlyURI, query.Get("scope"))
	assert.Equal(t, "https://app.example/callback", query.Get("redirect_uri"))
	assert.Equal(t, "client-123", query.Get("client_id"))

	// values are URL-encoded in the raw query
	assert.Contains(t, parsed.RawQuery, "redirect_uri=https%3A%2F%2Fapp.example%2Fcallback")
	assert.Equal(t, authURL, provider.GetAuthURL())
}

func TestExchangeCodeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "code_abc", r.PostForm.Get("code"))
		assert.Equal(t, "client-123", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret-456", r.PostForm.Get("client_secret"))
		assert.Equal(t, "https://app.example/callback", r.PostForm.Get("redirect_uri"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "ya29.token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	token, err := provider.ExchangeCode(context.Background(), "code_abc")
	require.NoError(t, err)
	assert.Equal(t, models.AccessToken("ya29.token"), token)
}

func TestExchangeCodeFailures(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		status      int
		body        string
	}{
		{"missing access token", "application/json", http.StatusOK, `{"token_type":"Bearer"}`},
		{"empty access token", "application/json", http.StatusOK, `{"access_token":""}`},
		{"body is not json", "application/json", http.StatusOK, `<html>oops</html>`},
		{"plain text body", "text/plain", http.StatusOK, `not json`},
		{"plain text token", "text/plain", http.StatusOK, `access_token=leaked&token_type=bearer`},
		{"form body", "application/x-www-form-urlencoded", http.StatusOK, `access_token=x`},
		{"error status", "application/json", http.StatusBadRequest, `{"error":"invalid_grant"}`},
		{"server error", "application/json", http.StatusInternalServerError, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			provider := newTestProvider(t, server.URL)

			token, err := provider.ExchangeCode(context.Background(), "code_abc")
			require.Error(t, err)
			assert.True(t, models.IsAuthError(err), "expected AuthError, got %v", err)
			assert.Empty(t, token)
		})
	}
}

func TestExchangeCodeNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	tokenURL := server.URL
	server.Close()

	provider := newTestProvider(t, tokenURL)

	_, err := provider.ExchangeCode(context.Background(), "code_abc")
	require.Error(t, err)
	assert.True(t, models.IsAuthError(err))
}

func TestExchangeCodeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	provider, err := NewGoogleProvider(Config{
		Credentials: testCredentials(),
		TokenURL:    server.URL,
		Timeout:     50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = provider.ExchangeCode(context.Background(), "code_abc")
	require.Error(t, err)
	assert.True(t, models.IsAuthError(err))
}

func TestExchangeCodeRequiresCode(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	_, err := provider.ExchangeCode(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, models.IsAuthError(err))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestExchangeCodeWithCallerClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"ya29.token","token_type":"Bearer"}`)
	}))
	defer server.Close()

	client := server.Client()
	transport := client.Transport

	provider, err := NewGoogleProvider(Config{
		Credentials: testCredentials(),
		TokenURL:    server.URL,
		Timeout:     time.Second,
		HTTPClient:  client,
	})
	require.NoError(t, err)

	token, err := provider.ExchangeCode(context.Background(), "code_abc")
	require.NoError(t, err)
	assert.Equal(t, models.AccessToken("ya29.token"), token)
	assert.Same(t, transport, client.Transport, "caller's client must not be modified")
}
