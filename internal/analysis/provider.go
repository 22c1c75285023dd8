package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/textlens/textlens-api/internal/logger"
)

// DefaultProviderTimeout bounds the single outbound call so a stuck
// provider cannot retain connections indefinitely.
const DefaultProviderTimeout = 30 * time.Second

// maxErrorBodyBytes caps how much of a provider error body is read when
// extracting a message.
const maxErrorBodyBytes = 64 << 10

// Result is the opaque payload the provider returns under its results key.
type Result map[string]any

// ErrorKind classifies a provider failure. The provider reports failures
// as free-text messages; the kind is derived from the message once, at the
// client boundary, so the rest of the pipeline never string-matches.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindURL
	KindText
	KindLength
)

// ProviderError is a failure surfaced by the analysis provider.
type ProviderError struct {
	StatusCode int
	Message    string
	Kind       ErrorKind
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}

// classifyMessage derives the error kind from the provider message.
// Length is checked first so "text too long" does not classify as a text
// failure.
func classifyMessage(message string) ErrorKind {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "too long"):
		return KindLength
	case strings.Contains(msg, "url"):
		return KindURL
	case strings.Contains(msg, "text"):
		return KindText
	default:
		return KindOther
	}
}

// Client performs the single outbound call to the provider's analysis
// endpoint. No retries: one provider failure is one user-visible failure.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *logger.Logger
}

// NewClient creates a provider client for the given analysis endpoint.
// The API key is sent as a bearer credential on every call.
func NewClient(log *logger.Logger, endpoint, apiKey string, timeout time.Duration) *Client {
	if log == nil {
		log = logger.Production()
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   log,
	}
}

// Analyze forwards the validated source and options to the provider and
// returns its results payload. Provider failures come back as
// *ProviderError; transport failures are wrapped and left unclassified.
func (p *Client) Analyze(ctx context.Context, source Source, opts Options) (Result, error) {
	target, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid provider endpoint: %w", err)
	}
	target.RawQuery = opts.Values().Encode()

	payload, err := json.Marshal(source)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := errorMessage(resp.Body)
		p.logger.Warn("Provider rejected analysis request",
			"status", resp.StatusCode,
			"message", message,
			"elapsed", time.Since(start),
		)
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Kind:       classifyMessage(message),
		}
	}

	var envelope struct {
		Results Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	p.logger.Debug("Provider call completed", "elapsed", time.Since(start))

	// The provider may omit results for degenerate inputs.
	if envelope.Results == nil {
		return Result{}, nil
	}
	return envelope.Results, nil
}

// errorMessage extracts a human-readable message from a provider error
// body, falling back to the raw body text when it is not the expected
// JSON shape.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	return strings.TrimSpace(string(raw))
}
