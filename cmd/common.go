package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ai/gemini"
	"github.com/spigell/resume-ranker/internal/embedding"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/secrets"
	"github.com/spigell/resume-ranker/internal/vector"
)

const (
	providerHash   = "hash"
	providerGemini = "gemini"
)

// setup builds the logger and decodes the config shared by every command.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		Name:  app,
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func newEmbedder(ctx context.Context, config *EmbedderConfig, logger *zap.Logger) (embedding.Embedder, error) {
	switch provider := strings.ToLower(strings.TrimSpace(config.Provider)); provider {
	case "", providerHash:
		return embedding.NewHashEmbedder(), nil
	case providerGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  config.Gemini.APIKeyFile,
			Env:   "RESUME_RANKER_GEMINI_API_KEY",
			Value: config.Gemini.APIKey,
		})
		if err != nil {
			return nil, err
		}
		embedder, err := gemini.NewEmbedder(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		return embedder, nil
	default:
		return nil, fmt.Errorf("unknown embedder provider %q", config.Provider)
	}
}

// newIndex returns nil when qdrant is disabled.
func newIndex(ctx context.Context, config *QdrantConfig, embedder embedding.Embedder, logger *zap.Logger) (*vector.Qdrant, error) {
	if !config.Enabled {
		return nil, nil
	}

	src := secrets.Source{
		Name:  "qdrant api key",
		File:  config.APIKeyFile,
		Env:   "RESUME_RANKER_QDRANT_API_KEY",
		Value: config.APIKey,
	}
	var apiKey string
	if secrets.Configured(src) {
		var err error
		if apiKey, err = secrets.Load(src); err != nil {
			return nil, err
		}
	}

	index, err := vector.NewQdrant(config.URL, apiKey, config.Collection, embedder, logger)
	if err != nil {
		return nil, err
	}

	if err := index.EnsureCollection(ctx); err != nil {
		index.Close()
		return nil, err
	}

	return index, nil
}

// inputText returns the content of file when set, the joined args otherwise.
func inputText(args []string, file string) (string, error) {
	if file == "" {
		return strings.Join(args, " "), nil
	}
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(data), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
