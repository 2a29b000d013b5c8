package ai

import (
	"context"
	"unicode/utf8"
)

// Service is the interface for embedding and completion providers.
// Implement this interface to add new AI providers (OpenAI, Gemini, etc.)
type Service interface {
	// Embed converts text into a fixed-length vector. Input longer than the
	// provider's budget is truncated before the call.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Complete runs a single prompt through the language model.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderAuto   ProviderType = "auto"
)

// truncate bounds text to max bytes, backing off to a rune boundary so the
// input stays valid UTF-8. Embedding providers reject or mis-embed overlong
// input; a truncated embedding beats a failed call.
func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
