package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ProcessRequest carries one inbound webhook call into the receiver
// service.
type ProcessRequest struct {
	Hash      string
	Payload   []byte
	IPAddress string
	UserAgent string
}

// ProcessResult is returned on a fully processed request.
type ProcessResult struct {
	FlowTriggered   bool              `json:"flowTriggered"`
	EventType       string            `json:"eventType"`
	FlowExecutionID string            `json:"flowExecutionId"`
	TicketID        *snowflake.ID     `json:"ticketId"`
	Variables       map[string]string `json:"-"`
}

// InspectResult reports link and flow metadata for the read-only GET
// probe. It never mutates counters or writes audit rows.
type InspectResult struct {
	Name       string `json:"name"`
	Platform   string `json:"platform"`
	Active     bool   `json:"active"`
	FlowName   string `json:"flow,omitempty"`
	FlowActive bool   `json:"flowActive"`
}

// Service receives inbound payment webhooks.
type Service interface {
	// Process handles one POST/PUT delivery end to end: link lookup,
	// normalization, flow dispatch, audit logging, counters.
	Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error)

	// Inspect implements the connectivity test variant.
	Inspect(ctx context.Context, hash string) (*InspectResult, error)
}

var (
	ErrLinkNotFound      = errors.New("webhook_link_not_found")
	ErrFlowInactive      = errors.New("flow_inactive")
	ErrNoTicketAvailable = errors.New("no_ticket_available")
	ErrEmptyFlow         = errors.New("flow_has_no_nodes")
)
