// Package dispatch turns a normalized payment event into a running
// flow execution: contact resolution, ticket opening, start-node
// selection, variable binding and the engine call.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	channeldomain "github.com/atendely/flowhook/internal/channel/domain"
	"github.com/atendely/flowhook/internal/config"
	contactdomain "github.com/atendely/flowhook/internal/contact/domain"
	"github.com/atendely/flowhook/internal/engine"
	flowdomain "github.com/atendely/flowhook/internal/flow/domain"
	"github.com/atendely/flowhook/internal/flowvars"
	ticketdomain "github.com/atendely/flowhook/internal/ticket/domain"
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Request carries one normalized event into the dispatcher. Link and
// Flow are already loaded and validated by the receiver.
type Request struct {
	Link        *domain.WebhookLink
	Flow        *flowdomain.Flow
	Event       domain.PaymentEvent
	EventType   string
	ExecutionID string
}

// Result reports what the dispatcher did. Variables is the full
// binding map handed to the engine; the receiver persists it in the
// audit row.
type Result struct {
	FlowTriggered    bool
	AlreadyProcessed bool
	TicketID         *snowflake.ID
	ContactID        *snowflake.ID
	Variables        map[string]string
}

type Dispatcher interface {
	Trigger(ctx context.Context, req Request) (*Result, error)
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	Repo     domain.Repository
	Contacts contactdomain.Service
	Tickets  ticketdomain.Service
	Channels channeldomain.Repository
	Engine   engine.Engine
	Vars     *flowvars.Store
}

type dispatcher struct {
	db            *gorm.DB
	log           *zap.Logger
	repo          domain.Repository
	contacts      contactdomain.Service
	tickets       ticketdomain.Service
	channels      channeldomain.Repository
	engine        engine.Engine
	vars          *flowvars.Store
	countryCode   string
	skipProcessed bool
}

func New(p Params) Dispatcher {
	return &dispatcher{
		db:            p.DB,
		log:           p.Log.Named("webhook.dispatch"),
		repo:          p.Repo,
		contacts:      p.Contacts,
		tickets:       p.Tickets,
		channels:      p.Channels,
		engine:        p.Engine,
		vars:          p.Vars,
		countryCode:   p.Cfg.DefaultCountryCode,
		skipProcessed: p.Cfg.SkipProcessedEvents,
	}
}

func (d *dispatcher) Trigger(ctx context.Context, req Request) (*Result, error) {
	vars := req.Event.Variables()
	vars["platform"] = req.Link.Platform
	vars["event_type"] = req.EventType
	vars["webhook_link_name"] = req.Link.Name

	if d.skipProcessed && req.Event.TransactionID != "" {
		done, err := d.repo.HasTriggeredTransaction(ctx, d.db, req.Link.ID, req.Event.TransactionID)
		if err != nil {
			d.log.Warn("idempotency check failed, proceeding",
				zap.String("transaction_id", req.Event.TransactionID),
				zap.Error(err))
		} else if done {
			d.log.Info("transaction already triggered a flow, skipping",
				zap.String("transaction_id", req.Event.TransactionID),
				zap.String("link_id", req.Link.ID.String()))
			return &Result{FlowTriggered: true, AlreadyProcessed: true, Variables: vars}, nil
		}
	}

	channel, err := d.channels.GetDefault(ctx, d.db, req.Link.CompanyID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		d.log.Warn("no default channel configured, flow not triggered",
			zap.String("company_id", req.Link.CompanyID.String()))
		return &Result{FlowTriggered: false, Variables: vars}, nil
	}

	graph, err := flowdomain.ParseGraph(req.Flow.Definition)
	if err != nil {
		return nil, fmt.Errorf("parse flow definition: %w", err)
	}
	startNodeID, err := graph.StartNode()
	if err != nil {
		return nil, err
	}

	contact, ticket, err := d.ensureTicket(ctx, req, channel.ID)
	if err != nil {
		return nil, err
	}

	vars["ticket_id"] = ticket.ID.String()
	vars["contact_id"] = contact.ID.String()

	exec := d.vars.NewExecution(req.ExecutionID)
	exec.BindAll(vars)
	exec.Bind("webhook_platform", req.Link.Platform)
	exec.Bind("webhook_event_type", req.EventType)

	keysFull := make([]string, 0, len(vars))
	for key := range vars {
		keysFull = append(keysFull, key)
	}
	sort.Strings(keysFull)

	execReq := engine.ExecuteRequest{
		ChannelID:   channel.ID,
		FlowID:      req.Flow.ID,
		CompanyID:   req.Link.CompanyID,
		Nodes:       graph.Nodes,
		Connections: graph.Connections,
		StartNodeID: startNodeID,
		Variables:   vars,
		Details: engine.Details{
			Inputs: []engine.InputMapping{
				{KeyValue: "nome", Data: "customer_name"},
				{KeyValue: "celular", Data: "customer_phone"},
				{KeyValue: "email", Data: "customer_email"},
			},
			KeysFull: keysFull,
		},
		ExecutionID: req.ExecutionID,
		TicketID:    ticket.ID,
		Contact: engine.ContactRef{
			Number: req.Event.CustomerPhone,
			Name:   req.Event.CustomerName,
			Email:  req.Event.CustomerEmail,
		},
	}

	if err := d.engine.Execute(ctx, execReq); err != nil {
		return nil, err
	}

	d.log.Info("flow triggered",
		zap.String("execution_id", req.ExecutionID),
		zap.String("flow_id", req.Flow.ID.String()),
		zap.String("ticket_id", ticket.ID.String()))

	return &Result{
		FlowTriggered: true,
		TicketID:      &ticket.ID,
		ContactID:     &contact.ID,
		Variables:     vars,
	}, nil
}

// ensureTicket resolves a contact and opens the ticket the engine
// requires. The first pass uses the customer phone as delivered; when
// that yields no contact a placeholder number is synthesized and the
// attempt repeats once before failing.
func (d *dispatcher) ensureTicket(ctx context.Context, req Request, channelID snowflake.ID) (*contactdomain.Contact, *ticketdomain.Ticket, error) {
	contact, err := d.contacts.Resolve(ctx, contactdomain.ResolveRequest{
		CompanyID: req.Link.CompanyID,
		RawPhone:  req.Event.CustomerPhone,
		Name:      req.Event.CustomerName,
		Email:     req.Event.CustomerEmail,
	})
	if err != nil {
		d.log.Error("contact resolution failed", zap.Error(err))
	}

	if contact == nil {
		placeholder := d.countryCode + fmt.Sprintf("%d", time.Now().UnixNano())
		contact, err = d.contacts.Resolve(ctx, contactdomain.ResolveRequest{
			CompanyID: req.Link.CompanyID,
			RawPhone:  placeholder,
			Name:      req.Event.CustomerName,
			Email:     req.Event.CustomerEmail,
		})
		if err != nil {
			d.log.Error("placeholder contact creation failed", zap.Error(err))
		}
	}

	if contact == nil {
		return nil, nil, domain.ErrNoTicketAvailable
	}

	ticket, err := d.tickets.OpenForExecution(ctx, ticketdomain.OpenRequest{
		ContactID:   contact.ID,
		ChannelID:   channelID,
		CompanyID:   req.Link.CompanyID,
		ExecutionID: req.ExecutionID,
	})
	if err != nil {
		d.log.Error("ticket creation failed", zap.Error(err))
		return nil, nil, domain.ErrNoTicketAvailable
	}

	return contact, ticket, nil
}
