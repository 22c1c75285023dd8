// Package fixtures assembles gateway routers against stubbed providers for
// handler and end-to-end tests.
package fixtures

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/textlens/textlens-api/internal/analysis"
	"github.com/textlens/textlens-api/internal/handlers"
	"github.com/textlens/textlens-api/internal/logger"
	"github.com/textlens/textlens-api/internal/metadata"
	"github.com/textlens/textlens-api/internal/token"
)

// TestSigningSecret is the process signing secret used by test routers.
const TestSigningSecret = "fixture-signing-secret"

// GatewayConfig holds the knobs tests commonly vary.
type GatewayConfig struct {
	// ProviderURL points at a stub provider, usually from StubProvider.
	ProviderURL string
	// SessionTTL defaults to an hour. Negative TTLs let tests mint
	// already-expired tokens.
	SessionTTL time.Duration
	// Store is the optional revocation store; nil keeps verification
	// stateless and leaves DELETE /api/session unregistered.
	Store token.RevocationStore
	// MetadataPath may be empty; the metadata route then answers 500.
	MetadataPath string
}

// SetupGatewayRouter builds the full route set the way main does, wired to
// the stub provider. It returns the router and the token manager so tests
// can mint credentials directly.
func SetupGatewayRouter(t *testing.T, cfg GatewayConfig) (*gin.Engine, *token.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Nop()
	manager := token.NewManager("test", []byte(TestSigningSecret), cfg.SessionTTL, cfg.Store)
	sessionHandler := handlers.NewSessionHandler(log, manager)

	var gateway *metadata.Gateway
	if cfg.MetadataPath != "" {
		loaded, err := metadata.Load(cfg.MetadataPath)
		if err != nil {
			t.Fatalf("failed to load test metadata: %v", err)
		}
		gateway = loaded
	}

	provider := analysis.NewClient(log, cfg.ProviderURL, "test-api-key", 5*time.Second)
	analyzeHandler := handlers.NewAnalyzeHandler(log, provider)

	router := gin.New()
	router.GET("/health", handlers.NewHealthHandler().HealthCheck)

	api := router.Group("/api")
	api.GET("/session", sessionHandler.CreateSession)
	if cfg.Store != nil {
		api.DELETE("/session", sessionHandler.RevokeSession)
	}
	api.GET("/metadata", handlers.NewMetadataHandler(log, gateway).GetMetadata)
	api.POST("/text-intelligence", sessionHandler.RequireSession(), analyzeHandler.Analyze)

	return router, manager
}

// StubProvider starts a provider stub that answers every analysis call
// with the given status and body. The server is closed with the test.
func StubProvider(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// WriteMetadataFile writes a valid metadata YAML file into a temp dir and
// returns its path.
func WriteMetadataFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	content := []byte(`gateway:
  service: text-intelligence
  version: test
  provider: stub
  features: [summarize, sentiment]
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write test metadata: %v", err)
	}
	return path
}
