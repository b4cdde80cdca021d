package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	StatusOpen = "open"

	// FlowNotStopped marks a ticket whose flow run is still in
	// progress; the flow engine flips it when the run ends.
	FlowNotStopped = "0"
)

// Ticket is the customer-service work item that carries one triggered
// flow run.
type Ticket struct {
	ID              snowflake.ID  `json:"id" gorm:"primaryKey"`
	ContactID       snowflake.ID  `json:"contact_id" gorm:"not null;index"`
	ChannelID       snowflake.ID  `json:"channel_id" gorm:"not null;index"`
	CompanyID       snowflake.ID  `json:"company_id" gorm:"not null;index"`
	UserID          *snowflake.ID `json:"user_id"`
	Status          string        `json:"status" gorm:"type:text;not null"`
	FlowExecutionID string        `json:"flow_execution_id" gorm:"type:text;index"`
	FlowStopped     string        `json:"flow_stopped" gorm:"type:text;not null;default:'0'"`
	LastMessage     string        `json:"last_message" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"not null"`
}

func (Ticket) TableName() string { return "tickets" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ticket *Ticket) error
}

// OpenRequest creates an open, unassigned ticket correlated with a
// flow execution.
type OpenRequest struct {
	ContactID   snowflake.ID
	ChannelID   snowflake.ID
	CompanyID   snowflake.ID
	ExecutionID string
}

type Service interface {
	OpenForExecution(ctx context.Context, req OpenRequest) (*Ticket, error)
}
