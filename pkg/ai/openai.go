package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultCompletionModel = "gpt-4o-mini"
)

// OpenAIService implements Service using the OpenAI API.
type OpenAIService struct {
	client          *openai.Client
	embeddingModel  openai.EmbeddingModel
	completionModel string
	embedMaxChars   int
}

func NewOpenAIService(apiKey string, embedMaxChars int) *OpenAIService {
	return &OpenAIService{
		client:          openai.NewClient(apiKey),
		embeddingModel:  openai.AdaEmbeddingV2,
		completionModel: DefaultCompletionModel,
		embedMaxChars:   embedMaxChars,
	}
}

func (s *OpenAIService) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{truncate(text, s.embedMaxChars)},
		Model: s.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return resp.Data[0].Embedding, nil
}

func (s *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.completionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return resp.Choices[0].Message.Content, nil
}
