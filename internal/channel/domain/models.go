package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Channel is an inbound messaging channel owned by a company. Tickets
// opened by webhook ingestion are bound to the company's default
// channel.
type Channel struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID snowflake.ID `json:"company_id" gorm:"not null;index"`
	Name      string       `json:"name" gorm:"not null"`
	Status    string       `json:"status" gorm:"type:text;not null"`
	IsDefault bool         `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

func (Channel) TableName() string { return "channels" }

// Repository looks up channels. GetDefault returns nil when the
// company has no default channel configured; ingestion continues
// without a ticket in that case.
type Repository interface {
	GetDefault(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*Channel, error)
}
