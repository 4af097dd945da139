package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spigell/tessa/internal/ai/gemini"
	"github.com/spigell/tessa/internal/ai/openai"
	"github.com/spigell/tessa/internal/config"
	"github.com/spigell/tessa/internal/logger"
	"github.com/spigell/tessa/internal/secrets"
	"go.uber.org/zap"
)

// New builds the configured provider and wraps it in a Client.
func New(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	provider, err := newProvider(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("language model client initialised",
		append(logger.CommonFields(provider.Name(), provider.Model()),
			zap.Duration("timeout", cfg.Timeout),
			zap.Int("max_retries", cfg.MaxRetries),
		)...,
	)

	return NewClient(provider, cfg.Timeout, cfg.MaxLogLength, log), nil
}

func newProvider(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (Provider, error) {
	providerLogger := logger.WithCommonFields(log, cfg.Provider, cfg.Model)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", config.ProviderGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		return gemini.NewGenerator(ctx, gemini.Options{
			APIKey:     apiKey,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
		}, providerLogger)

	case config.ProviderVertex:
		return gemini.NewGenerator(ctx, gemini.Options{
			Project:    cfg.Vertex.Project,
			Location:   cfg.Vertex.Location,
			APIVersion: cfg.Vertex.APIVersion,
			BaseURL:    cfg.Vertex.BaseURL,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
		}, providerLogger)

	case config.ProviderOpenAI:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		return openai.NewProvider(cfg.OpenAI.BaseURL, apiKey, cfg.Model, &http.Client{})

	case config.ProviderAzureOpenAI:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "azure openai api key",
			Value: cfg.Azure.APIKey,
			File:  cfg.Azure.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.azure.api-key-file or AZURE_OPENAI_API_KEY)", err)
		}

		return openai.NewAzureProvider(cfg.Azure.Endpoint, apiKey, cfg.Azure.APIVersion, cfg.Model, &http.Client{})

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}
