package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	maildomain "mailrag-backend/internal/mail/domain"
)

// DefaultTopK is used when a search request leaves the match count unset.
const DefaultTopK = 2

// FindMostRelevant embeds the query and returns the user's closest stored
// records. Results are ranked by the vector store; an empty index or an
// unrelated query legitimately yields zero matches.
func (u *mailUsecase) FindMostRelevant(ctx context.Context, userID, query string, topK int) ([]*maildomain.RecordMetadata, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotLoggedIn
	}

	embedding, err := u.aiService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return u.vectorStore.Query(ctx, embedding, topK, user.Email)
}

// Answer retrieves the user's most relevant emails and conditions a single
// completion call on them. With zero matches there is nothing to ground an
// answer on, so it returns empty without calling the model.
func (u *mailUsecase) Answer(ctx context.Context, userID, query string, topK int) (string, []*maildomain.RecordMetadata, error) {
	matches, err := u.FindMostRelevant(ctx, userID, query, topK)
	if err != nil {
		return "", nil, err
	}
	if len(matches) == 0 {
		log.Printf("[RAG] No relevant emails for query %q", query)
		return "", nil, nil
	}

	var sb strings.Builder
	for _, match := range matches {
		sb.WriteString(fmt.Sprintf("Sender: %s, Date: %s, Subject: %s, Text: %s\n",
			match.Sender, match.Date, match.Subject, match.Text))
	}

	prompt := fmt.Sprintf("Given the following emails:\n%s\nWhat is the answer to the question: %s", sb.String(), query)

	answer, err := u.aiService.Complete(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return answer, matches, nil
}
