// Package analysis holds the request-validation, option-building, and
// provider-client pipeline between the untrusted client and the remote
// text-intelligence backend.
package analysis

import (
	"errors"
	"strings"
)

// AnalyzeRequest is the raw JSON body of an analysis request. Exactly one
// of Text or URL must be provided.
type AnalyzeRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Source is a validated analysis input: exactly one field is set. It
// serializes directly as the provider request payload.
type Source struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

var (
	// ErrMalformedBody is reported when the request body is not valid JSON.
	ErrMalformedBody = errors.New("request body must be a JSON object")

	// ErrEmptyInput is reported when neither text nor url was provided.
	ErrEmptyInput = errors.New("either text or url must be provided")

	// ErrBothProvided is reported when both text and url were provided.
	ErrBothProvided = errors.New("provide either text or url, not both")

	// ErrURLScheme is reported for urls outside http:// and https://.
	ErrURLScheme = errors.New("url must start with http:// or https://")

	// ErrEmptyText is reported when text contains only whitespace.
	ErrEmptyText = errors.New("text must not be empty")
)

// ParseSource validates the request body and returns the single source to
// forward. Checks run in a fixed order so only one error surfaces when
// several conditions are violated: presence, then exclusivity, then the
// per-field checks.
func ParseSource(req AnalyzeRequest) (Source, error) {
	switch {
	case req.Text == "" && req.URL == "":
		return Source{}, ErrEmptyInput
	case req.Text != "" && req.URL != "":
		return Source{}, ErrBothProvided
	}

	if req.URL != "" {
		if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
			return Source{}, ErrURLScheme
		}
		return Source{URL: req.URL}, nil
	}

	if strings.TrimSpace(req.Text) == "" {
		return Source{}, ErrEmptyText
	}
	return Source{Text: req.Text}, nil
}
