package repository

import (
	"time"

	maildomain "mailrag-backend/internal/mail/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ingestRunRepository implements IngestRunRepository interface
type ingestRunRepository struct {
	db *gorm.DB
}

// NewIngestRunRepository creates a new instance of ingestRunRepository
func NewIngestRunRepository(db *gorm.DB) IngestRunRepository {
	return &ingestRunRepository{
		db: db,
	}
}

func (r *ingestRunRepository) Create(run *maildomain.IngestRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now
	return r.db.Create(run).Error
}

func (r *ingestRunRepository) Update(run *maildomain.IngestRun) error {
	run.UpdatedAt = time.Now()
	return r.db.Save(run).Error
}

func (r *ingestRunRepository) ListByUser(userID string, limit int) ([]*maildomain.IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []*maildomain.IngestRun
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
