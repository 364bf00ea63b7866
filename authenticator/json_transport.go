package authenticator

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxTokenResponseBytes matches the cap x/oauth2 applies to token responses
const maxTokenResponseBytes = 1 << 20

var errTokenResponseNotJSON = errors.New("token endpoint returned a non-JSON body")

// jsonBodyTransport rejects successful token responses that are not JSON.
// x/oauth2 would otherwise decode text/plain and form bodies as a query string.
type jsonBodyTransport struct {
	base http.RoundTripper
}

func (t *jsonBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errTokenResponseNotJSON
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
