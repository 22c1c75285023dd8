package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlens/textlens-api/test/fixtures"
)

func TestGetMetadata(t *testing.T) {
	provider := fixtures.StubProvider(t, http.StatusOK, `{"results": {}}`)
	router, _ := fixtures.SetupGatewayRouter(t, fixtures.GatewayConfig{
		ProviderURL:  provider.URL,
		MetadataPath: fixtures.WriteMetadataFile(t),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metadata", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "text-intelligence", resp["service"])
	assert.Equal(t, "stub", resp["provider"])
}

func TestGetMetadata_NotLoaded(t *testing.T) {
	provider := fixtures.StubProvider(t, http.StatusOK, `{"results": {}}`)
	router, _ := fixtures.SetupGatewayRouter(t, fixtures.GatewayConfig{ProviderURL: provider.URL})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metadata", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	errObj := decodeError(t, w)
	assert.Equal(t, "processing_error", errObj["type"])
}

func TestHealthCheck(t *testing.T) {
	provider := fixtures.StubProvider(t, http.StatusOK, `{"results": {}}`)
	router, _ := fixtures.SetupGatewayRouter(t, fixtures.GatewayConfig{ProviderURL: provider.URL})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "text-intelligence", resp["service"])
}
