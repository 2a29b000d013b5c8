package domain

import "time"

// MailMessage is one fetched email, normalized from the provider envelope.
// Header-derived fields are empty when the message carries no matching header.
type MailMessage struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Date    string `json:"date,omitempty"`
	Sender  string `json:"sender,omitempty"`
	Subject string `json:"subject,omitempty"`
	Link    string `json:"link,omitempty"`
}

// RecordMetadata is the metadata stored alongside each vector and returned
// by similarity queries. Text may be truncated to the configured limit.
type RecordMetadata struct {
	UserEmail string  `json:"user_email"`
	Text      string  `json:"text"`
	Date      string  `json:"date,omitempty"`
	Sender    string  `json:"sender,omitempty"`
	Subject   string  `json:"subject,omitempty"`
	Link      string  `json:"link,omitempty"`
	Score     float64 `json:"score,omitempty"`
}

// VectorRecord is one entry in the vector index. ID is the hex SHA-256 of the
// message text, so re-ingesting the same content overwrites the same entry.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Metadata  RecordMetadata
}

// Ingest run statuses. A run is created as running and transitions to one
// of the terminal statuses when the pass finishes.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusPartial  = "partial"
	RunStatusFailed   = "failed"
)

// IngestRun records one ingestion pass over a date range for a user.
// A partial status means at least one batch or item was lost; the vector
// index may still hold contributions from the batches that succeeded.
type IngestRun struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	UserEmail string    `json:"user_email"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Fetched   int       `json:"fetched"`
	Skipped   int       `json:"skipped"`
	Upserted  int       `json:"upserted"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
