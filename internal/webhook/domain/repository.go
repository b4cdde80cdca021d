package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the persistence surface for webhook links and their
// audit logs.
type Repository interface {
	// FindByHash returns the link matching the URL hash regardless of
	// its active flag, or nil when no link exists.
	FindByHash(ctx context.Context, db *gorm.DB, hash string) (*WebhookLink, error)

	// CreateLog writes one audit row. Callers invoke it on every exit
	// path of a processed request.
	CreateLog(ctx context.Context, db *gorm.DB, log *WebhookLinkLog) error

	// IncrementCounters bumps total_requests, successful_requests when
	// success is true, and last_request_at, atomically in the database.
	IncrementCounters(ctx context.Context, db *gorm.DB, id snowflake.ID, success bool) error

	// HasTriggeredTransaction reports whether a log row on the link
	// already carries the provider transaction id with a triggered
	// flow. Used by the opt-in idempotency check.
	HasTriggeredTransaction(ctx context.Context, db *gorm.DB, linkID snowflake.ID, transactionID string) (bool, error)
}
