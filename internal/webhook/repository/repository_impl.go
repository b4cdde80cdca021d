package repository

import (
	"context"
	"errors"
	"time"

	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByHash(ctx context.Context, db *gorm.DB, hash string) (*domain.WebhookLink, error) {
	var link domain.WebhookLink
	err := db.WithContext(ctx).
		Where("webhook_hash = ?", hash).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repo) CreateLog(ctx context.Context, db *gorm.DB, log *domain.WebhookLinkLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) IncrementCounters(ctx context.Context, db *gorm.DB, id snowflake.ID, success bool) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"total_requests":  gorm.Expr("total_requests + 1"),
		"last_request_at": now,
		"updated_at":      now,
	}
	if success {
		updates["successful_requests"] = gorm.Expr("successful_requests + 1")
	}
	return db.WithContext(ctx).
		Model(&domain.WebhookLink{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repo) HasTriggeredTransaction(ctx context.Context, db *gorm.DB, linkID snowflake.ID, transactionID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.WebhookLinkLog{}).
		Where("webhook_link_id = ? AND flow_triggered = ?", linkID, true).
		Where(datatypes.JSONQuery("payload_processed").Equals(transactionID, "transaction_id")).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
