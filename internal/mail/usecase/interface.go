package usecase

import (
	"context"
	"errors"

	authdomain "mailrag-backend/internal/auth/domain"
	maildomain "mailrag-backend/internal/mail/domain"
)

// Precondition failures, surfaced before any network call is made.
var (
	ErrNotLoggedIn      = errors.New("please login first")
	ErrMissingDateRange = errors.New("start date and end date must be specified")
)

// MailUsecase is the ingestion and retrieval surface.
type MailUsecase interface {
	// IngestEmails fetches the user's mail in [startDate, endDate), embeds
	// it and upserts it into the vector index. The returned run reports
	// whether the pass completed fully or partially.
	IngestEmails(ctx context.Context, userID, startDate, endDate string) (*maildomain.IngestRun, error)
	// IngestRecent runs a one-day incremental ingest, used by the Gmail
	// push notification listener.
	IngestRecent(ctx context.Context, userEmail string) error
	// FindMostRelevant returns up to topK stored records ranked by
	// similarity to the query, scoped to the user. Zero matches is a valid
	// outcome, returned as an empty slice with a nil error.
	FindMostRelevant(ctx context.Context, userID, query string, topK int) ([]*maildomain.RecordMetadata, error)
	// Answer runs retrieval and conditions a single language-model call on
	// the matches. Zero matches returns ("", nil, nil); a language-model
	// failure returns a non-nil error.
	Answer(ctx context.Context, userID, query string, topK int) (string, []*maildomain.RecordMetadata, error)
	// ClearIndex removes everything the user has indexed, used when the
	// account unlinks its mailbox.
	ClearIndex(ctx context.Context, userID string) error
	ListRuns(userID string) ([]*maildomain.IngestRun, error)
	WatchMailbox(ctx context.Context, userID string) error
}

// GmailProvider fetches mail for accounts linked through Google.
type GmailProvider interface {
	FetchByDateRange(ctx context.Context, accessToken, refreshToken, startDate, endDate string, onTokenRefresh maildomain.TokenUpdateFunc) ([]*maildomain.MailMessage, error)
	Watch(ctx context.Context, accessToken, refreshToken, topicName string, onTokenRefresh maildomain.TokenUpdateFunc) error
}

// IMAPProvider fetches mail for accounts linked through IMAP.
type IMAPProvider interface {
	FetchByDateRange(ctx context.Context, server string, port int, username, password, startDate, endDate string) ([]*maildomain.MailMessage, error)
}

// VectorStore is the vector index gateway.
type VectorStore interface {
	UpsertRecords(ctx context.Context, records []*maildomain.VectorRecord) error
	Query(ctx context.Context, embedding []float32, topK int, userEmail string) ([]*maildomain.RecordMetadata, error)
	DeleteByOwner(ctx context.Context, userEmail string) error
}

// AIService provides embeddings and completions.
type AIService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

// SheetStore appends subscription candidate rows to a spreadsheet.
type SheetStore interface {
	AppendRows(ctx context.Context, accessToken, refreshToken, spreadsheetID string, rows [][]interface{}) error
}

// UserRepository is the slice of the auth repository the pipeline needs.
type UserRepository interface {
	FindByID(id string) (*authdomain.User, error)
	FindByEmail(email string) (*authdomain.User, error)
	UpdateGoogleTokens(userID, accessToken, refreshToken string) error
}
