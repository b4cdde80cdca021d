package repository

import (
	"context"
	"errors"

	"github.com/atendely/flowhook/internal/channel/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) GetDefault(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.Channel, error) {
	var channel domain.Channel
	err := db.WithContext(ctx).
		Where("company_id = ? AND is_default = ?", companyID, true).
		Order("id asc").
		First(&channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}
