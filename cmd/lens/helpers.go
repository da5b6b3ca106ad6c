package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/wisefig/ledgerlens/internal/engine"
	"github.com/wisefig/ledgerlens/internal/providers"
	"github.com/wisefig/ledgerlens/internal/service"
	"github.com/wisefig/ledgerlens/internal/storage"
)

// defaultDatabasePath returns the standard location for the history
// database.
func defaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "lens", "lens.db"), nil
}

// openStorage opens and migrates the history database.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		var err error
		dbPath, err = defaultDatabasePath()
		if err != nil {
			return nil, err
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// buildEmbedder creates the embedding client when an API key is
// configured. Without one the semantic scorer simply stays off.
func buildEmbedder() service.Embedder {
	apiKey := viper.GetString("embedding.api_key")
	if apiKey == "" {
		slog.Debug("no embedding API key configured, semantic scoring disabled")
		return nil
	}

	client, err := providers.NewEmbeddingClient(providers.EmbeddingConfig{
		APIKey:   apiKey,
		Endpoint: viper.GetString("embedding.endpoint"),
		Model:    viper.GetString("embedding.model"),
	}, slog.Default())
	if err != nil {
		slog.Warn("failed to create embedding client, semantic scoring disabled", "error", err)
		return nil
	}
	return client
}

// buildOCR creates the tesseract wrapper. A missing install is reported
// once and receipt commands will fail with a clear message.
func buildOCR() (service.TextExtractor, error) {
	ocr, err := providers.NewTesseract(providers.TesseractConfig{
		BinaryPath: viper.GetString("ocr.binary_path"),
		Language:   viper.GetString("ocr.language"),
	}, slog.Default())
	if err != nil {
		return nil, err
	}
	return ocr, nil
}

// buildEngine assembles the decision engine with persistent storage and
// loads the owner's history. Callers must Close the returned store.
func buildEngine(ctx context.Context) (*engine.DecisionEngine, *storage.SQLiteStorage, error) {
	store, err := openStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg := engine.DefaultConfig()
	cfg.Owner = viper.GetString("owner")

	eng := engine.NewWithConfig(buildEmbedder(), nil, store, slog.Default(), cfg)
	if err := eng.LoadHistory(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return eng, store, nil
}
