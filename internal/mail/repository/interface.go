package repository

import maildomain "mailrag-backend/internal/mail/domain"

// IngestRunRepository persists ingestion run history
type IngestRunRepository interface {
	Create(run *maildomain.IngestRun) error
	Update(run *maildomain.IngestRun) error
	ListByUser(userID string, limit int) ([]*maildomain.IngestRun, error)
}
