package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/textlens/textlens-api/internal/analysis"
	"github.com/textlens/textlens-api/internal/config"
	"github.com/textlens/textlens-api/internal/handlers"
	"github.com/textlens/textlens-api/internal/logger"
	"github.com/textlens/textlens-api/internal/metadata"
	"github.com/textlens/textlens-api/internal/token"
)

func main() {
	cfg := config.Load()
	flag.Parse()

	log := logger.Production()
	gin.SetMode(gin.ReleaseMode) // Explicitly set release mode
	if cfg.DebugMode {
		log = logger.Development()
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.DebugMode {
		router.Use(cors.New(cors.Config{
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Type"},
			AllowOriginFunc: func(origin string) bool {
				return true
			},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())

	store, err := initStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize revocation store", "error", err)
		os.Exit(1)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Failed to close revocation store", "error", err)
			}
		}()
		go purgeLoop(ctx, log, store)
	}

	if err := registerHandlers(router, cfg, log, store); err != nil {
		log.Error("Failed to register handlers", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received, shutting down server...")

	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited gracefully")
}

// initStore creates the revocation store for the configured storage mode.
//
// Storage modes:
//   - stateless (default): no store, verification is pure
//   - in-memory: revocations kept in process memory
//   - disk: persistent local storage using SQLite (single replica only)
//   - external: external database (PostgreSQL), supports multiple replicas
//
//nolint:ireturn // Returns RevocationStore interface for pluggable storage backends.
func initStore(ctx context.Context, cfg *config.Config) (token.RevocationStore, error) {
	switch cfg.StorageMode {
	case config.StorageModeStateless, "":
		return nil, nil

	case config.StorageModeInMemory:
		return token.NewMemoryStore(), nil

	case config.StorageModeDisk:
		dataPath := cfg.DataPath
		if dataPath == "" {
			dataPath = config.DefaultDataPath
		}
		return token.NewSQLStore(ctx, dataPath)

	case config.StorageModeExternal:
		if cfg.DBConnectionURL == "" {
			return nil, errors.New("--db-connection-url is required when using --storage=external")
		}
		return token.NewSQLStore(ctx, cfg.DBConnectionURL)

	default:
		return nil, fmt.Errorf("unknown storage mode: %q (valid modes: stateless, in-memory, disk, external)", cfg.StorageMode)
	}
}

// purgeLoop drops revocation entries for tokens that have expired on
// their own, so the store does not grow without bound.
func purgeLoop(ctx context.Context, log *logger.Logger, store token.RevocationStore) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.PurgeExpired(ctx); err != nil {
				log.Warn("Failed to purge expired revocations", "error", err)
			}
		}
	}
}

func registerHandlers(router *gin.Engine, cfg *config.Config, log *logger.Logger, store token.RevocationStore) error {
	router.GET("/health", handlers.NewHealthHandler().HealthCheck)
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	secret, err := cfg.SigningSecretBytes()
	if err != nil {
		return err
	}
	if cfg.SigningSecret == "" {
		log.Warn("No signing secret configured; generated one for this process. " +
			"Sessions will not survive a restart.")
	}

	manager := token.NewManager(cfg.Name, secret, cfg.SessionTTL, store)
	sessionHandler := handlers.NewSessionHandler(log, manager)

	gateway, err := metadata.Load(cfg.MetadataPath)
	if err != nil {
		// Startup continues; the metadata route answers 500 until fixed.
		log.Error("Failed to load metadata", "error", err, "path", cfg.MetadataPath)
	}
	metadataHandler := handlers.NewMetadataHandler(log, gateway)

	provider := analysis.NewClient(log, cfg.ProviderURL, cfg.ProviderAPIKey, cfg.ProviderTimeout)
	analyzeHandler := handlers.NewAnalyzeHandler(log, provider)

	api := router.Group("/api")
	api.GET("/session", sessionHandler.CreateSession)
	if store != nil {
		api.DELETE("/session", sessionHandler.RevokeSession)
	}
	api.GET("/metadata", metadataHandler.GetMetadata)
	api.POST("/text-intelligence", sessionHandler.RequireSession(), analyzeHandler.Analyze)

	return nil
}
