package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// WebhookLink is a configured inbound payment endpoint. Lifecycle is
// owned by the management subsystem; ingestion only reads it and
// updates its counters.
type WebhookLink struct {
	ID                 snowflake.ID   `json:"id" gorm:"primaryKey"`
	CompanyID          snowflake.ID   `json:"company_id" gorm:"not null;index"`
	UserID             *snowflake.ID  `json:"user_id"`
	Name               string         `json:"name" gorm:"not null"`
	Description        string         `json:"description" gorm:"type:text"`
	Platform           string         `json:"platform" gorm:"type:text;not null"`
	FlowID             snowflake.ID   `json:"flow_id" gorm:"not null;index"`
	WebhookHash        string         `json:"webhook_hash" gorm:"type:text;not null;uniqueIndex"`
	WebhookURL         string         `json:"webhook_url" gorm:"type:text"`
	Active             bool           `json:"active" gorm:"not null;default:true"`
	TotalRequests      int64          `json:"total_requests" gorm:"not null;default:0"`
	SuccessfulRequests int64          `json:"successful_requests" gorm:"not null;default:0"`
	LastRequestAt      *time.Time     `json:"last_request_at"`
	Metadata           datatypes.JSON `json:"metadata"`
	CreatedAt          time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"not null"`
}

func (WebhookLink) TableName() string { return "webhook_links" }

// WebhookLinkLog is the immutable audit row written exactly once per
// inbound request, on every exit path.
type WebhookLinkLog struct {
	ID               snowflake.ID   `json:"id" gorm:"primaryKey"`
	WebhookLinkID    *snowflake.ID  `json:"webhook_link_id" gorm:"index"`
	CompanyID        *snowflake.ID  `json:"company_id" gorm:"index"`
	Platform         string         `json:"platform" gorm:"type:text;not null"`
	EventType        string         `json:"event_type" gorm:"type:text;not null"`
	PayloadRaw       datatypes.JSON `json:"payload_raw"`
	PayloadProcessed datatypes.JSON `json:"payload_processed"`
	FlowTriggered    bool           `json:"flow_triggered" gorm:"not null;default:false"`
	FlowExecutionID  string         `json:"flow_execution_id" gorm:"type:text;index"`
	HTTPStatus       int            `json:"http_status" gorm:"not null"`
	ResponseTimeMs   int64          `json:"response_time_ms" gorm:"not null"`
	ErrorMessage     string         `json:"error_message" gorm:"type:text"`
	IPAddress        string         `json:"ip_address" gorm:"type:text"`
	UserAgent        string         `json:"user_agent" gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at" gorm:"not null"`
}

func (WebhookLinkLog) TableName() string { return "webhook_link_logs" }

// NewHash mints the unguessable identifier embedded in a webhook URL.
func NewHash() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Event types recorded on non-success exit paths.
const (
	EventTypeNotFound        = "webhook_not_found"
	EventTypeFlowInactive    = "flow_inactive"
	EventTypeProcessingError = "processing_error"
	EventTypeUnknown         = "unknown"
	EventTypeGeneric         = "generic"
)
