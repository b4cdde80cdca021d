package main

import (
	"github.com/atendely/flowhook/internal/channel"
	"github.com/atendely/flowhook/internal/config"
	"github.com/atendely/flowhook/internal/contact"
	"github.com/atendely/flowhook/internal/engine"
	"github.com/atendely/flowhook/internal/flow"
	"github.com/atendely/flowhook/internal/flowvars"
	"github.com/atendely/flowhook/internal/migration"
	"github.com/atendely/flowhook/internal/observability"
	"github.com/atendely/flowhook/internal/server"
	"github.com/atendely/flowhook/internal/ticket"
	"github.com/atendely/flowhook/internal/webhook"
	"github.com/atendely/flowhook/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		flowvars.Module,

		// Functional domains
		contact.Module,
		channel.Module,
		ticket.Module,
		flow.Module,
		engine.Module,
		webhook.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
