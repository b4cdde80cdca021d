package domain

import (
	"encoding/json"
	"time"

	webhookdomain "github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Flow is a stored flow definition executed by the external flow
// engine. Only the pieces ingestion needs are modeled here.
type Flow struct {
	ID         snowflake.ID   `json:"id" gorm:"primaryKey"`
	CompanyID  snowflake.ID   `json:"company_id" gorm:"not null;index"`
	Name       string         `json:"name" gorm:"not null"`
	Active     bool           `json:"active" gorm:"not null;default:true"`
	Definition datatypes.JSON `json:"definition" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"not null"`
}

func (Flow) TableName() string { return "flows" }

// NodeTypeEnd marks terminal nodes that can never start an execution.
const NodeTypeEnd = "end"

type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the directed node/connection structure stored in a flow
// definition.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// ParseGraph decodes a stored flow definition. Unknown fields are
// ignored.
func ParseGraph(raw []byte) (Graph, error) {
	var graph Graph
	if len(raw) == 0 {
		return graph, nil
	}
	if err := json.Unmarshal(raw, &graph); err != nil {
		return Graph{}, err
	}
	return graph, nil
}

// StartNode computes the entry node of the graph: the first node in
// input order that has no incoming connection and is not terminal.
// When no node qualifies the first node is used. An empty graph is
// unusable for the current request.
func (g Graph) StartNode() (string, error) {
	if len(g.Nodes) == 0 {
		return "", webhookdomain.ErrEmptyFlow
	}

	incoming := make(map[string]bool, len(g.Connections))
	for _, conn := range g.Connections {
		incoming[conn.Target] = true
	}

	for _, node := range g.Nodes {
		if !incoming[node.ID] && node.Type != NodeTypeEnd {
			return node.ID, nil
		}
	}

	return g.Nodes[0].ID, nil
}
