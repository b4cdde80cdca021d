package repository

import (
	"context"
	"errors"

	"github.com/atendely/flowhook/internal/contact/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, companyID snowflake.ID, number string) (*domain.Contact, error) {
	var contact domain.Contact
	err := db.WithContext(ctx).
		Where("company_id = ? AND number = ?", companyID, number).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, contact *domain.Contact) error {
	return db.WithContext(ctx).Create(contact).Error
}
