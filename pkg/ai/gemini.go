package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	geminiCompletionURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key="
	geminiEmbeddingURL  = "https://generativelanguage.googleapis.com/v1beta/models/text-embedding-004:embedContent?key="
)

// GeminiService implements Service over the Gemini REST API.
type GeminiService struct {
	apiKey        string
	embedMaxChars int
}

func NewGeminiService(apiKey string, embedMaxChars int) *GeminiService {
	return &GeminiService{apiKey: apiKey, embedMaxChars: embedMaxChars}
}

func (g *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	respBody, err := g.post(ctx, geminiCompletionURL+g.apiKey, payload)
	if err != nil {
		return "", err
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]interface{}{
		"model": "models/text-embedding-004",
		"content": map[string]interface{}{
			"parts": []map[string]string{{"text": truncate(text, g.embedMaxChars)}},
		},
	}

	respBody, err := g.post(ctx, geminiEmbeddingURL+g.apiKey, payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}

	if len(result.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return result.Embedding.Values, nil
}

func (g *GeminiService) post(ctx context.Context, url string, payload map[string]interface{}) ([]byte, error) {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error: %s", string(respBody))
	}
	return respBody, nil
}
