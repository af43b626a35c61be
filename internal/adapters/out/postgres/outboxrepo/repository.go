package outboxrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Append stores messages in the current transaction.
func (r *GormOutboxRepository) Append(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}
	dtos := make([]OutboxMessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, FromMessage(m))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// GetUnpublishedForUpdate locks up to limit pending messages, oldest first.
// Rows locked by a concurrent relay are skipped rather than waited for.
func (r *GormOutboxRepository) GetUnpublishedForUpdate(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []OutboxMessageDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("occurred_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, toMessage(dto))
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID, publishedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&OutboxMessageDTO{}).
		Where("id IN ?", ids).
		Update("published_at", publishedAt).Error
}
