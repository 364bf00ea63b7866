package contacts

import (
	"context"
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

const janeFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:gd="http://schemas.google.com/g/2005">
<entry>
  <gd:name><gd:fullName>Jane Doe</gd:fullName></gd:name>
  <gd:email address="jane@x.com"/>
  <gd:phoneNumber rel="http://schemas.google.com/g/2005#work" uri="tel:555-0100"/>
</entry>
<entry>
  <gd:id>no-name</gd:id>
  <gd:email address="ghost@x.com"/>
</entry>
</feed>`

func newTestImporter(t *testing.T, server *httptest.Server, timeout time.Duration) *Importer {
	t.Helper()
	importer, err := NewImporter(Config{
		FeedURL:    server.URL + "/m8/feeds/contacts/default/full",
		Timeout:    timeout,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return importer
}

func TestNewImporterDefaults(t *testing.T) {
	importer, err := NewImporter(Config{})
	require.NoError(t, err)

	parsed, err := url.Parse(importer.FeedURL())
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", parsed.Host)
	assert.Equal(t, "/m8/feeds/contacts/default/full", parsed.Path)
	assert.Equal(t, "2000", parsed.Query().Get("max-results"))
	assert.Equal(t, DefaultGDataVersion, importer.gdataVersion)
}

func TestNewImporterRejectsBadURL(t *testing.T) {
	_, err := NewImporter(Config{FeedURL: "http://bad host/%zz"})
	require.Error(t, err)
}

func TestFetchRawFeedSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/m8/feeds/contacts/default/full", r.URL.Path)
		assert.Equal(t, "2000", r.URL.Query().Get("max-results"))
		assert.Equal(t, "OAuth ya29.token", r.Header.Get("Authorization"))
		assert.Equal(t, "3.0", r.Header.Get("GData-Version"))

		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, janeFeed)
	}))
	defer server.Close()

	importer := newTestImporter(t, server, time.Second)

	raw, err := importer.FetchRawFeed(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, janeFeed, raw)
}

func TestFetchRawFeedStatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError, http.StatusFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				fmt.Fprint(w, "<errors/>")
			}))
			defer server.Close()

			importer := newTestImporter(t, server, time.Second)

			raw, err := importer.FetchRawFeed(context.Background(), "ya29.token")
			require.Error(t, err)
			assert.True(t, models.IsTransportError(err), "expected TransportError, got %v", err)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", status))
			assert.Empty(t, raw)
		})
	}
}

func TestFetchRawFeedDoesNotFollowRedirects(t *testing.T) {
	var targetHits int32
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&targetHits, 1)
		fmt.Fprint(w, "<feed/>")
	}))
	defer target.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/elsewhere", http.StatusFound)
	}))
	defer server.Close()

	importer := newTestImporter(t, server, time.Second)

	raw, err := importer.FetchRawFeed(context.Background(), "secret-tok")
	require.Error(t, err)
	assert.True(t, models.IsTransportError(err), "expected TransportError, got %v", err)
	assert.Contains(t, err.Error(), "status 302")
	assert.Empty(t, raw)
	assert.Zero(t, atomic.LoadInt32(&targetHits), "redirect target must not be called")
}

func TestFetchRawFeedNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	importer := newTestImporter(t, server, time.Second)
	server.Close()

	_, err := importer.FetchRawFeed(context.Background(), "ya29.token")
	require.Error(t, err)
	assert.True(t, models.IsTransportError(err))
}

func TestFetchRawFeedTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	importer := newTestImporter(t, server, 50*time.Millisecond)

	_, err := importer.FetchRawFeed(context.Background(), "ya29.token")
	require.Error(t, err)
	assert.True(t, models.IsTransportError(err))
}

func TestFetchRawFeedRequiresToken(t *testing.T) {
	importer, err := NewImporter(Config{})
	require.NoError(t, err)

	_, err = importer.FetchRawFeed(context.Background(), "")
	require.Error(t, err)
	assert.True(t, models.IsAuthError(err))
}

func TestImportContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, janeFeed)
	}))
	defer server.Close()

	importer := newTestImporter(t, server, time.Second)

	contacts, err := importer.ImportContacts(context.Background(), "ya29.token")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Jane Doe", contacts[0].FullName)
	assert.Equal(t, "jane@x.com", contacts[0].EmailAddresses[0].EmailAddress)
	assert.Equal(t, "555-0100", *contacts[0].PhoneNumbers[0].PhoneNumber)
	assert.Equal(t, "work", *contacts[0].PhoneNumbers[0].Type)
}

func TestImportContactsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "service temporarily unavailable")
	}))
	defer server.Close()

	importer := newTestImporter(t, server, time.Second)

	contacts, err := importer.ImportContacts(context.Background(), "ya29.token")
	require.Error(t, err)
	assert.True(t, models.IsParseError(err))
	assert.Nil(t, contacts)
}
