package repository

import (
	"context"
	"errors"

	"github.com/atendely/flowhook/internal/flow/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Flow, error) {
	var flow domain.Flow
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&flow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flow, nil
}
