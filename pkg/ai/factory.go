package ai

import "fmt"

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "openai", "gemini" or "auto"

	OpenAIAPIKey string
	GeminiAPIKey string

	// EmbedMaxChars bounds the text sent to the embedding model.
	EmbedMaxChars int
}

// NewService creates a Service based on the config.
// This is the factory function - switch AI provider by changing config.Provider
func NewService(cfg Config) (Service, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.EmbedMaxChars), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiService(cfg.GeminiAPIKey, cfg.EmbedMaxChars), nil

	default:
		// Auto: OpenAI primary with Gemini fallback when both keys are
		// configured, otherwise whichever provider has a key.
		if cfg.OpenAIAPIKey != "" && cfg.GeminiAPIKey != "" {
			return NewFallbackService(
				NewOpenAIService(cfg.OpenAIAPIKey, cfg.EmbedMaxChars),
				NewGeminiService(cfg.GeminiAPIKey, cfg.EmbedMaxChars),
			), nil
		}
		if cfg.OpenAIAPIKey != "" {
			return NewOpenAIService(cfg.OpenAIAPIKey, cfg.EmbedMaxChars), nil
		}
		if cfg.GeminiAPIKey != "" {
			return NewGeminiService(cfg.GeminiAPIKey, cfg.EmbedMaxChars), nil
		}
		return nil, fmt.Errorf("no AI provider configured")
	}
}
