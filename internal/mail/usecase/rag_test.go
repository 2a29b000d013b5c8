package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	maildomain "mailrag-backend/internal/mail/domain"
)

func seedRecords(env *testEnv, texts map[string][]float32) {
	for text, vec := range texts {
		env.store.records[ContentID(text)] = &maildomain.VectorRecord{
			ID:        ContentID(text),
			Embedding: vec,
			Metadata: maildomain.RecordMetadata{
				UserEmail: "alice@example.com",
				Text:      text,
				Sender:    "bob@example.com",
				Subject:   "re: " + text,
			},
		}
	}
}

func TestFindMostRelevantEmptyQuery(t *testing.T) {
	env := newTestEnv(googleUser())

	if _, err := env.uc.FindMostRelevant(context.Background(), "u1", "   ", 5); err == nil {
		t.Fatal("expected error for blank query")
	}
}

func TestFindMostRelevantDefaultsTopK(t *testing.T) {
	env := newTestEnv(googleUser())

	if _, err := env.uc.FindMostRelevant(context.Background(), "u1", "anything", 0); err != nil {
		t.Fatalf("FindMostRelevant: %v", err)
	}
	if env.store.gotTopK != DefaultTopK {
		t.Fatalf("expected topK %d, got %d", DefaultTopK, env.store.gotTopK)
	}
}

func TestFindMostRelevantScopedToOwner(t *testing.T) {
	env := newTestEnv(googleUser())
	seedRecords(env, map[string][]float32{"mine": {1, 0, 0}})
	env.store.records["other"] = &maildomain.VectorRecord{
		ID:        "other",
		Embedding: []float32{1, 0, 0},
		Metadata:  maildomain.RecordMetadata{UserEmail: "eve@example.com", Text: "not yours"},
	}

	results, err := env.uc.FindMostRelevant(context.Background(), "u1", "query", 5)
	if err != nil {
		t.Fatalf("FindMostRelevant: %v", err)
	}
	if env.store.gotOwner != "alice@example.com" {
		t.Fatalf("query not scoped to owner, got %q", env.store.gotOwner)
	}
	for _, r := range results {
		if r.UserEmail != "alice@example.com" {
			t.Fatalf("leaked record for %s", r.UserEmail)
		}
	}
}

func TestFindMostRelevantEmptyIndex(t *testing.T) {
	env := newTestEnv(googleUser())

	results, err := env.uc.FindMostRelevant(context.Background(), "u1", "anything", 3)
	if err != nil {
		t.Fatalf("zero matches is not an error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestAnswerNoMatches(t *testing.T) {
	env := newTestEnv(googleUser())

	answer, sources, err := env.uc.Answer(context.Background(), "u1", "anything", 3)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "" || sources != nil {
		t.Fatalf("expected empty answer without sources, got %q / %v", answer, sources)
	}
	if len(env.ai.prompts) != 0 {
		t.Fatal("model must not be called with zero matches")
	}
}

func TestAnswerGroundsPromptOnMatches(t *testing.T) {
	env := newTestEnv(googleUser())
	env.ai.vectors["when is the team dinner?"] = []float32{0, 1, 0}
	seedRecords(env, map[string][]float32{
		"invoice for march":        {1, 0.2, 0},
		"dinner is thursday at 7":  {0, 1, 0},
		"your package has shipped": {0, -1, 1},
	})
	env.ai.answer = "Thursday at 7."

	answer, sources, err := env.uc.Answer(context.Background(), "u1", "when is the team dinner?", 2)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "Thursday at 7." {
		t.Fatalf("got answer %q", answer)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Text != "dinner is thursday at 7" {
		t.Fatalf("best match should come first, got %q", sources[0].Text)
	}
	if len(env.ai.prompts) != 1 {
		t.Fatalf("expected one completion call, got %d", len(env.ai.prompts))
	}
	prompt := env.ai.prompts[0]
	if !strings.Contains(prompt, "dinner is thursday at 7") {
		t.Fatalf("prompt missing match text: %q", prompt)
	}
	if !strings.Contains(prompt, "when is the team dinner?") {
		t.Fatalf("prompt missing question: %q", prompt)
	}
	if strings.Contains(prompt, "your package has shipped") {
		t.Fatal("prompt contains a record beyond topK")
	}
}

func TestAnswerPropagatesModelError(t *testing.T) {
	env := newTestEnv(googleUser())
	seedRecords(env, map[string][]float32{"some email": {1, 0, 0}})
	env.ai.answerErr = errors.New("model overloaded")

	_, _, err := env.uc.Answer(context.Background(), "u1", "anything", 2)
	if err == nil {
		t.Fatal("expected model failure to surface")
	}
}
