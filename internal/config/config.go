package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"time"

	"github.com/subosito/gotenv"
	"k8s.io/utils/env"
)

// Storage modes for the session revocation store.
const (
	// StorageModeStateless disables revocation entirely; verification is a
	// pure signature-and-expiry check.
	StorageModeStateless = "stateless"
	StorageModeInMemory  = "in-memory"
	StorageModeDisk      = "disk"
	StorageModeExternal  = "external"
)

const (
	DefaultDataPath     = "/data/textlens.db"
	DefaultMetadataPath = "config/metadata.yaml"
)

// Config holds application configuration
type Config struct {
	// Name identifies this gateway instance; used as the token issuer.
	Name string

	// Server configuration
	Port      string
	DebugMode bool

	// Session token configuration
	SigningSecret string
	SessionTTL    time.Duration

	// Provider configuration
	ProviderURL     string
	ProviderAPIKey  string
	ProviderTimeout time.Duration

	// Static metadata source
	MetadataPath string

	// Revocation store configuration
	StorageMode     string
	DataPath        string
	DBConnectionURL string
}

// Load loads configuration from an optional .env file and the environment
func Load() *Config {
	_ = gotenv.Load()

	debugMode, _ := env.GetBool("DEBUG_MODE", false)

	c := &Config{
		Name:            env.GetString("INSTANCE_NAME", "text-intelligence"),
		Port:            env.GetString("PORT", "8080"),
		DebugMode:       debugMode,
		SigningSecret:   env.GetString("SIGNING_SECRET", ""),
		SessionTTL:      durationFromEnv("SESSION_TTL", time.Hour),
		ProviderURL:     env.GetString("PROVIDER_URL", ""),
		ProviderAPIKey:  env.GetString("PROVIDER_API_KEY", ""),
		ProviderTimeout: durationFromEnv("PROVIDER_TIMEOUT", 30*time.Second),
		MetadataPath:    env.GetString("METADATA_PATH", DefaultMetadataPath),
		StorageMode:     env.GetString("STORAGE_MODE", StorageModeStateless),
		DataPath:        env.GetString("DATA_PATH", DefaultDataPath),
		DBConnectionURL: env.GetString("DB_CONNECTION_URL", ""),
	}
	c.bindFlags(flag.CommandLine)

	return c
}

// bindFlags will parse the given flagset and bind values to selected config options
func (c *Config) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Name, "name", c.Name, "Name of this gateway instance")
	fs.StringVar(&c.Port, "port", c.Port, "Port to listen on")
	fs.BoolVar(&c.DebugMode, "debug", c.DebugMode, "Enable debug mode")
	fs.StringVar(&c.ProviderURL, "provider-url", c.ProviderURL, "Analysis endpoint of the text-intelligence provider")
	fs.StringVar(&c.MetadataPath, "metadata-path", c.MetadataPath, "Path to the static metadata YAML file")
	fs.StringVar(&c.StorageMode, "storage", c.StorageMode, "Revocation storage mode: stateless, in-memory, disk, or external")
	fs.StringVar(&c.DataPath, "data-path", c.DataPath, "Path to SQLite database file for --storage=disk")
	fs.StringVar(&c.DBConnectionURL, "db-connection-url", c.DBConnectionURL, "Database URL for --storage=external")
}

// SigningSecretBytes returns the configured signing secret, generating a
// random one when none was supplied. A generated secret lives for the
// process lifetime, so tokens do not survive a restart.
func (c *Config) SigningSecretBytes() ([]byte, error) {
	if c.SigningSecret != "" {
		return []byte(c.SigningSecret), nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate signing secret: %w", err)
	}
	return []byte(hex.EncodeToString(buf)), nil
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := env.GetString(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
