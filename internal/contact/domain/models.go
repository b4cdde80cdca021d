package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Contact is a customer record keyed by (number, company). Ingestion
// resolves or creates contacts but never overwrites existing fields.
type Contact struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID snowflake.ID `json:"company_id" gorm:"not null;uniqueIndex:ux_contacts_number_company"`
	Number    string       `json:"number" gorm:"type:text;not null;uniqueIndex:ux_contacts_number_company"`
	Name      string       `json:"name" gorm:"not null"`
	Email     string       `json:"email" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

func (Contact) TableName() string { return "contacts" }

type Repository interface {
	FindByNumber(ctx context.Context, db *gorm.DB, companyID snowflake.ID, number string) (*Contact, error)
	Insert(ctx context.Context, db *gorm.DB, contact *Contact) error
}

// ResolveRequest carries the customer identity extracted from a
// payment payload.
type ResolveRequest struct {
	CompanyID snowflake.ID
	RawPhone  string
	Name      string
	Email     string
}

// Service resolves the contact for an inbound payment event. A nil
// contact with a nil error means the phone did not qualify; callers
// treat that as a valid, non-failing outcome.
type Service interface {
	Resolve(ctx context.Context, req ResolveRequest) (*Contact, error)
}
