package models

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorCodeAuth      = "AUTH_ERROR"
	ErrorCodeTransport = "TRANSPORT_ERROR"
	ErrorCodeParse     = "PARSE_ERROR"
)

// NewAuthError reports a failed authorization or token exchange
func NewAuthError(message string, cause error) error {
	return newError(cause, goerrors.CategoryAuth, message, http.StatusUnauthorized, ErrorCodeAuth, nil)
}

// NewTransportError reports a failed feed fetch. status is 0 when no response was received.
func NewTransportError(message string, cause error, status int) error {
	var metadata map[string]any
	if status != 0 {
		metadata = map[string]any{"status_code": status}
	}
	return newError(cause, goerrors.CategoryExternal, message, http.StatusBadGateway, ErrorCodeTransport, metadata)
}

// NewParseError reports a feed document that could not be parsed even leniently
func NewParseError(message string, cause error) error {
	return newError(cause, goerrors.CategoryBadInput, message, http.StatusUnprocessableEntity, ErrorCodeParse, nil)
}

func newError(
	cause error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	var err *goerrors.Error
	if cause == nil {
		err = goerrors.New(message, category)
	} else {
		err = goerrors.Wrap(cause, category, message)
	}
	err = err.WithCode(code).WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// IsAuthError reports whether err carries the AUTH_ERROR envelope
func IsAuthError(err error) bool {
	return hasTextCode(err, ErrorCodeAuth)
}

// IsTransportError reports whether err carries the TRANSPORT_ERROR envelope
func IsTransportError(err error) bool {
	return hasTextCode(err, ErrorCodeTransport)
}

// IsParseError reports whether err carries the PARSE_ERROR envelope
func IsParseError(err error) bool {
	return hasTextCode(err, ErrorCodeParse)
}

// StatusCode returns the HTTP status attached to err, or 500 for plain errors
func StatusCode(err error) int {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code != 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == textCode
}
