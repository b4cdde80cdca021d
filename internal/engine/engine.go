// Package engine defines the boundary to the external flow execution
// engine. Node semantics and branching live on the other side; this
// service only selects the start node and hands over the variable
// bundle.
package engine

import (
	"context"

	flowdomain "github.com/atendely/flowhook/internal/flow/domain"
	"github.com/bwmarrin/snowflake"
)

// ContactRef identifies the customer the execution runs for.
type ContactRef struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// InputMapping maps a flow input field to a canonical variable name.
type InputMapping struct {
	KeyValue string `json:"keyValue"`
	Data     string `json:"data"`
}

// Details enumerates the default input-field mappings and the full
// variable key set of the execution.
type Details struct {
	Inputs   []InputMapping `json:"inputs"`
	KeysFull []string       `json:"keysFull"`
}

// ExecuteRequest carries everything the engine needs to run a flow
// from its start node.
type ExecuteRequest struct {
	ChannelID   snowflake.ID            `json:"channelId"`
	FlowID      snowflake.ID            `json:"flowId"`
	CompanyID   snowflake.ID            `json:"companyId"`
	Nodes       []flowdomain.Node       `json:"nodes"`
	Connections []flowdomain.Connection `json:"connections"`
	StartNodeID string                  `json:"startNodeId"`
	Variables   map[string]string       `json:"variables"`
	Details     Details                 `json:"details"`
	ExecutionID string                  `json:"executionId"`
	TicketID    snowflake.ID            `json:"ticketId"`
	Contact     ContactRef              `json:"contact"`
}

// Engine starts one flow execution. Errors propagate unmodified to the
// webhook receiver.
type Engine interface {
	Execute(ctx context.Context, req ExecuteRequest) error
}
