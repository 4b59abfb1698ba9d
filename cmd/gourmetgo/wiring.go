package main

import (
	"context"
	"fmt"

	"github.com/PabloGalante/gourmetgo/internal/adapters/llm"
	"github.com/PabloGalante/gourmetgo/internal/config"
	"github.com/PabloGalante/gourmetgo/internal/domain"
	"github.com/PabloGalante/gourmetgo/internal/observability"
)

// loadConfig reads the config and applies the --provider override.
func loadConfig(provider string) (*config.Config, error) {
	cfg := config.Load()
	if provider != "" {
		p, ok := config.ParseProvider(provider)
		if !ok {
			return nil, fmt.Errorf("unknown model provider %q", provider)
		}
		cfg.Provider = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newModelClient picks the ModelClient for the configured provider.
func newModelClient(ctx context.Context, cfg *config.Config) (domain.ModelClient, error) {
	log := observability.Logger()

	switch cfg.Provider {
	case config.ProviderMock:
		log.Info("using mock model client")
		return llm.NewMockLLM(), nil
	case config.ProviderOpenAI:
		c, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName)
		if err != nil {
			return nil, err
		}
		log.Info("using openai model client", "model", c.ModelName())
		return c, nil
	case config.ProviderVertex:
		log.Info("using vertex model client", "model", cfg.ModelName, "project", cfg.GCPProjectID)
		return llm.NewGeminiClient(ctx, llm.GeminiOptions{
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
	case config.ProviderGemini:
		log.Info("using gemini model client", "model", cfg.ModelName)
		return llm.NewGeminiClient(ctx, llm.GeminiOptions{
			APIKey:    cfg.GeminiAPIKey,
			ModelName: cfg.ModelName,
		})
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// sessionConfig loads the prompt profile and applies the configured
// temperature unless the profile file sets its own.
func sessionConfig(cfg *config.Config) (domain.SessionConfig, error) {
	p, err := llm.LoadProfile(cfg.PromptFile)
	if err != nil {
		return domain.SessionConfig{}, err
	}
	sc := p.SessionConfig()
	if cfg.PromptFile == "" {
		sc.Temperature = cfg.Temperature
	}
	return sc, nil
}
