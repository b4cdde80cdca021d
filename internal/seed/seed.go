// Package seed provisions a demo company with a channel, an active
// flow and a webhook link so a fresh instance can receive payloads
// immediately.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	channeldomain "github.com/atendely/flowhook/internal/channel/domain"
	"github.com/atendely/flowhook/internal/config"
	flowdomain "github.com/atendely/flowhook/internal/flow/domain"
	webhookdomain "github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// demoCompanyID is stable so reseeding an existing database is a
// no-op.
const demoCompanyID = snowflake.ID(1)

const demoFlowDefinition = `{
  "nodes": [
    {"id": "start-1", "type": "message"},
    {"id": "end-1", "type": "end"}
  ],
  "connections": [
    {"source": "start-1", "target": "end-1"}
  ]
}`

// EnsureDemoData seeds the demo company once. It is gated behind
// SEED_DEMO_DATA and safe to run on every startup.
func EnsureDemoData(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing webhookdomain.WebhookLink
		err := tx.WithContext(ctx).
			Where("company_id = ?", demoCompanyID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()

		channel := channeldomain.Channel{
			ID:        node.Generate(),
			CompanyID: demoCompanyID,
			Name:      "Demo Channel",
			Status:    "CONNECTED",
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&channel).Error; err != nil {
			return err
		}

		flow := flowdomain.Flow{
			ID:         node.Generate(),
			CompanyID:  demoCompanyID,
			Name:       "Demo Payment Flow",
			Active:     true,
			Definition: []byte(demoFlowDefinition),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.WithContext(ctx).Create(&flow).Error; err != nil {
			return err
		}

		hash, err := webhookdomain.NewHash()
		if err != nil {
			return err
		}

		link := webhookdomain.WebhookLink{
			ID:          node.Generate(),
			CompanyID:   demoCompanyID,
			Name:        "Demo Kiwify Link",
			Description: "Seeded demo webhook link",
			Platform:    "kiwify",
			FlowID:      flow.ID,
			WebhookHash: hash,
			WebhookURL:  fmt.Sprintf("%s/webhook/payment/%s", cfg.BackendURL, hash),
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return tx.WithContext(ctx).Create(&link).Error
	})
}
