package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService routes calls to a primary provider and falls back to a
// secondary one on connection or quota errors. Embeddings always come from
// the primary: mixing embedding models in one index would make stored and
// query vectors incomparable.
type FallbackService struct {
	primary   Service
	secondary Service
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(primary, secondary Service) *FallbackService {
	return &FallbackService{
		primary:   primary,
		secondary: secondary,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

func (f *FallbackService) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.primary == nil {
		return nil, fmt.Errorf("no AI provider available for embeddings")
	}
	return f.primary.Embed(ctx, text)
}

// Complete tries the primary provider first and falls back to the secondary
// on connection or quota errors.
func (f *FallbackService) Complete(ctx context.Context, prompt string) (string, error) {
	if f.primary != nil {
		result, err := f.primary.Complete(ctx, prompt)
		if err == nil {
			return result, nil
		}

		if isConnectionError(err) || isQuotaError(err) {
			log.Printf("[AI] Primary provider failed: %v, falling back", err)
		} else {
			return "", err
		}
	}

	if f.secondary != nil {
		result, err := f.secondary.Complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("fallback completion failed: %w", err)
		}
		return result, nil
	}

	return "", fmt.Errorf("no AI provider available for completion")
}
