package analysis_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlens/textlens-api/internal/analysis"
	"github.com/textlens/textlens-api/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *analysis.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return analysis.NewClient(logger.Nop(), srv.URL, "test-api-key", 5*time.Second)
}

func TestAnalyze_Success(t *testing.T) {
	var gotAuth string
	var gotQuery map[string][]string
	var gotBody analysis.Source

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": {"sentiment": "positive"}}`))
	})

	opts := analysis.Options{"language": "en", "sentiment": "true"}
	result, err := client.Analyze(t.Context(), analysis.Source{Text: "hello world"}, opts)
	require.NoError(t, err)

	assert.Equal(t, analysis.Result{"sentiment": "positive"}, result)
	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "hello world", gotBody.Text)
	assert.Equal(t, []string{"en"}, gotQuery["language"])
	assert.Equal(t, []string{"true"}, gotQuery["sentiment"])
}

func TestAnalyze_MissingResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	result, err := client.Analyze(t.Context(), analysis.Source{Text: "x"}, analysis.Options{})
	require.NoError(t, err)
	assert.Equal(t, analysis.Result{}, result)
}

func TestAnalyze_ProviderError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind analysis.ErrorKind
		wantMsg  string
	}{
		{
			name:     "nested error message",
			status:   http.StatusBadRequest,
			body:     `{"error": {"message": "could not fetch url"}}`,
			wantKind: analysis.KindURL,
			wantMsg:  "could not fetch url",
		},
		{
			name:     "flat error message",
			status:   http.StatusUnprocessableEntity,
			body:     `{"message": "text is not analyzable"}`,
			wantKind: analysis.KindText,
			wantMsg:  "text is not analyzable",
		},
		{
			name:     "length beats text in classification",
			status:   http.StatusBadRequest,
			body:     `{"message": "text too long"}`,
			wantKind: analysis.KindLength,
			wantMsg:  "text too long",
		},
		{
			name:     "unparsable body falls back to raw text",
			status:   http.StatusBadGateway,
			body:     `upstream exploded`,
			wantKind: analysis.KindOther,
			wantMsg:  "upstream exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Analyze(t.Context(), analysis.Source{Text: "x"}, analysis.Options{})
			var providerErr *analysis.ProviderError
			require.ErrorAs(t, err, &providerErr)
			assert.Equal(t, tt.status, providerErr.StatusCode)
			assert.Equal(t, tt.wantKind, providerErr.Kind)
			assert.Equal(t, tt.wantMsg, providerErr.Message)
		})
	}
}

func TestAnalyze_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	client := analysis.NewClient(logger.Nop(), srv.URL, "k", time.Second)
	_, err := client.Analyze(t.Context(), analysis.Source{Text: "x"}, analysis.Options{})
	require.Error(t, err)

	var providerErr *analysis.ProviderError
	assert.False(t, errors.As(err, &providerErr), "transport failures should stay unclassified")
}
