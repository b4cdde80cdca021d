package dispatch_test

import (
	"context"
	"errors"
	"testing"

	channeldomain "github.com/atendely/flowhook/internal/channel/domain"
	"github.com/atendely/flowhook/internal/config"
	contactdomain "github.com/atendely/flowhook/internal/contact/domain"
	"github.com/atendely/flowhook/internal/engine"
	flowdomain "github.com/atendely/flowhook/internal/flow/domain"
	"github.com/atendely/flowhook/internal/flowvars"
	ticketdomain "github.com/atendely/flowhook/internal/ticket/domain"
	"github.com/atendely/flowhook/internal/webhook/dispatch"
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeContacts struct {
	resolved []contactdomain.ResolveRequest
	contact  *contactdomain.Contact
	// nilOnFirstCall makes the initial resolve miss so the
	// placeholder retry path runs.
	nilOnFirstCall bool
	calls          int
}

func (f *fakeContacts) Resolve(ctx context.Context, req contactdomain.ResolveRequest) (*contactdomain.Contact, error) {
	f.calls++
	f.resolved = append(f.resolved, req)
	if f.nilOnFirstCall && f.calls == 1 {
		return nil, nil
	}
	return f.contact, nil
}

type fakeTickets struct {
	opened []ticketdomain.OpenRequest
	ticket *ticketdomain.Ticket
	err    error
}

func (f *fakeTickets) OpenForExecution(ctx context.Context, req ticketdomain.OpenRequest) (*ticketdomain.Ticket, error) {
	f.opened = append(f.opened, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.ticket, nil
}

type fakeChannels struct {
	channel *channeldomain.Channel
}

func (f *fakeChannels) GetDefault(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*channeldomain.Channel, error) {
	return f.channel, nil
}

type fakeEngine struct {
	requests []engine.ExecuteRequest
	err      error
}

func (f *fakeEngine) Execute(ctx context.Context, req engine.ExecuteRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeRepo struct {
	triggered bool
}

func (f *fakeRepo) FindByHash(ctx context.Context, db *gorm.DB, hash string) (*domain.WebhookLink, error) {
	return nil, nil
}

func (f *fakeRepo) CreateLog(ctx context.Context, db *gorm.DB, log *domain.WebhookLinkLog) error {
	return nil
}

func (f *fakeRepo) IncrementCounters(ctx context.Context, db *gorm.DB, id snowflake.ID, success bool) error {
	return nil
}

func (f *fakeRepo) HasTriggeredTransaction(ctx context.Context, db *gorm.DB, linkID snowflake.ID, transactionID string) (bool, error) {
	return f.triggered, nil
}

type fixture struct {
	contacts *fakeContacts
	tickets  *fakeTickets
	channels *fakeChannels
	engine   *fakeEngine
	repo     *fakeRepo
	store    *flowvars.Store
	d        dispatch.Dispatcher
}

func newFixture(t *testing.T, cfg config.Config) *fixture {
	t.Helper()

	f := &fixture{
		contacts: &fakeContacts{contact: &contactdomain.Contact{
			ID:        snowflake.ID(100),
			CompanyID: snowflake.ID(1),
			Number:    "5511999999999",
			Name:      "Maria",
		}},
		tickets: &fakeTickets{ticket: &ticketdomain.Ticket{
			ID: snowflake.ID(200),
		}},
		channels: &fakeChannels{channel: &channeldomain.Channel{
			ID: snowflake.ID(300), IsDefault: true,
		}},
		engine: &fakeEngine{},
		repo:   &fakeRepo{},
		store:  flowvars.NewStore(flowvars.Config{}),
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "55"
	}
	f.d = dispatch.New(dispatch.Params{
		Log:      zap.NewNop(),
		Cfg:      cfg,
		Repo:     f.repo,
		Contacts: f.contacts,
		Tickets:  f.tickets,
		Channels: f.channels,
		Engine:   f.engine,
		Vars:     f.store,
	})
	return f
}

func sampleRequest() dispatch.Request {
	return dispatch.Request{
		Link: &domain.WebhookLink{
			ID:        snowflake.ID(10),
			CompanyID: snowflake.ID(1),
			Name:      "Demo Link",
			Platform:  "kiwify",
		},
		Flow: &flowdomain.Flow{
			ID:     snowflake.ID(20),
			Active: true,
			Definition: []byte(`{
				"nodes": [
					{"id": "start", "type": "message"},
					{"id": "finish", "type": "end"}
				],
				"connections": [{"source": "start", "target": "finish"}]
			}`),
		},
		Event: domain.PaymentEvent{
			CustomerName:  "Maria da Silva",
			CustomerEmail: "maria@example.com",
			CustomerPhone: "11999999999",
			TransactionID: "TX-1",
			Platform:      "kiwify",
		},
		EventType:   "order_approved",
		ExecutionID: "exec-1",
	}
}

func TestTriggerRunsFlow(t *testing.T) {
	f := newFixture(t, config.Config{})

	result, err := f.d.Trigger(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !result.FlowTriggered {
		t.Fatal("flow not triggered")
	}
	if result.TicketID == nil || *result.TicketID != snowflake.ID(200) {
		t.Errorf("ticket id = %v", result.TicketID)
	}

	if len(f.engine.requests) != 1 {
		t.Fatalf("engine calls = %d", len(f.engine.requests))
	}
	req := f.engine.requests[0]
	if req.StartNodeID != "start" {
		t.Errorf("start node = %q", req.StartNodeID)
	}
	if req.TicketID != snowflake.ID(200) {
		t.Errorf("engine ticket id = %v", req.TicketID)
	}
	if req.Variables["ticket_id"] == "" || req.Variables["contact_id"] == "" {
		t.Error("ticket/contact ids missing from variables")
	}
	if req.Variables["webhook_link_name"] != "Demo Link" {
		t.Errorf("webhook_link_name = %q", req.Variables["webhook_link_name"])
	}
	if len(req.Details.Inputs) != 3 {
		t.Errorf("details inputs = %d", len(req.Details.Inputs))
	}

	if v, _ := f.store.Get("exec-1_customer_name"); v != "Maria da Silva" {
		t.Errorf("execution binding = %q", v)
	}
	if v, _ := f.store.Get("webhook_event_type"); v != "order_approved" {
		t.Errorf("webhook_event_type = %q", v)
	}

	if len(f.tickets.opened) != 1 {
		t.Fatalf("tickets opened = %d", len(f.tickets.opened))
	}
	if f.tickets.opened[0].ExecutionID != "exec-1" {
		t.Errorf("ticket execution id = %q", f.tickets.opened[0].ExecutionID)
	}
}

func TestTriggerWithoutDefaultChannel(t *testing.T) {
	f := newFixture(t, config.Config{})
	f.channels.channel = nil

	result, err := f.d.Trigger(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if result.FlowTriggered {
		t.Error("flow must not trigger without a channel")
	}
	if len(f.engine.requests) != 0 {
		t.Error("engine must not be invoked")
	}
}

func TestTriggerRetriesWithPlaceholderContact(t *testing.T) {
	f := newFixture(t, config.Config{})
	f.contacts.nilOnFirstCall = true

	req := sampleRequest()
	req.Event.CustomerPhone = ""

	result, err := f.d.Trigger(context.Background(), req)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !result.FlowTriggered {
		t.Fatal("flow not triggered")
	}
	if f.contacts.calls != 2 {
		t.Fatalf("contact resolve calls = %d, want retry", f.contacts.calls)
	}
	retry := f.contacts.resolved[1]
	if len(retry.RawPhone) < 10 {
		t.Errorf("placeholder phone = %q", retry.RawPhone)
	}
	if retry.RawPhone[:2] != "55" {
		t.Errorf("placeholder phone = %q, want country code prefix", retry.RawPhone)
	}
}

func TestTriggerFailsWithoutTicket(t *testing.T) {
	f := newFixture(t, config.Config{})
	f.contacts.contact = nil

	_, err := f.d.Trigger(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrNoTicketAvailable) {
		t.Fatalf("err = %v, want ErrNoTicketAvailable", err)
	}

	f = newFixture(t, config.Config{})
	f.tickets.err = errors.New("insert failed")

	_, err = f.d.Trigger(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrNoTicketAvailable) {
		t.Fatalf("err = %v, want ErrNoTicketAvailable", err)
	}
}

func TestTriggerPropagatesEngineError(t *testing.T) {
	f := newFixture(t, config.Config{})
	engineErr := errors.New("engine boom")
	f.engine.err = engineErr

	_, err := f.d.Trigger(context.Background(), sampleRequest())
	if !errors.Is(err, engineErr) {
		t.Fatalf("err = %v, want engine error unmodified", err)
	}
}

func TestTriggerEmptyFlowDefinition(t *testing.T) {
	f := newFixture(t, config.Config{})

	req := sampleRequest()
	req.Flow.Definition = []byte(`{"nodes": [], "connections": []}`)

	_, err := f.d.Trigger(context.Background(), req)
	if !errors.Is(err, domain.ErrEmptyFlow) {
		t.Fatalf("err = %v, want ErrEmptyFlow", err)
	}
}

func TestTriggerSkipsProcessedTransaction(t *testing.T) {
	f := newFixture(t, config.Config{SkipProcessedEvents: true})
	f.repo.triggered = true

	result, err := f.d.Trigger(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !result.AlreadyProcessed {
		t.Error("expected AlreadyProcessed")
	}
	if len(f.engine.requests) != 0 {
		t.Error("engine must not be re-invoked for a processed transaction")
	}
}
