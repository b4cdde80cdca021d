package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	channeldomain "github.com/atendely/flowhook/internal/channel/domain"
	channelrepo "github.com/atendely/flowhook/internal/channel/repository"
	"github.com/atendely/flowhook/internal/config"
	contactdomain "github.com/atendely/flowhook/internal/contact/domain"
	contactrepo "github.com/atendely/flowhook/internal/contact/repository"
	contactsvc "github.com/atendely/flowhook/internal/contact/service"
	"github.com/atendely/flowhook/internal/engine"
	flowdomain "github.com/atendely/flowhook/internal/flow/domain"
	flowrepo "github.com/atendely/flowhook/internal/flow/repository"
	"github.com/atendely/flowhook/internal/flowvars"
	"github.com/atendely/flowhook/internal/migration"
	"github.com/atendely/flowhook/internal/observability/metrics"
	ticketdomain "github.com/atendely/flowhook/internal/ticket/domain"
	ticketrepo "github.com/atendely/flowhook/internal/ticket/repository"
	ticketsvc "github.com/atendely/flowhook/internal/ticket/service"
	"github.com/atendely/flowhook/internal/webhook/dispatch"
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
	"github.com/atendely/flowhook/internal/webhook/extractors/generic"
	"github.com/atendely/flowhook/internal/webhook/extractors/kiwify"
	"github.com/atendely/flowhook/internal/webhook/repository"
	"github.com/atendely/flowhook/internal/webhook/service"
	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const kiwifyPayload = `{
	"order_id": "ORD-1",
	"order_status": "paid",
	"webhook_event_type": "order_approved",
	"payment_method": "credit_card",
	"Customer": {
		"full_name": "Joana Prado",
		"mobile": "11999999999",
		"email": "joana@example.com"
	},
	"Product": {
		"product_id": "PROD-9",
		"product_name": "Curso"
	},
	"Commissions": {
		"charge_amount": "197.00",
		"my_commission": "150.00",
		"currency": "BRL"
	}
}`

type recordingEngine struct {
	requests []engine.ExecuteRequest
	err      error
}

func (e *recordingEngine) Execute(ctx context.Context, req engine.ExecuteRequest) error {
	e.requests = append(e.requests, req)
	return e.err
}

type env struct {
	db     *gorm.DB
	svc    domain.Service
	engine *recordingEngine
	link   *domain.WebhookLink
	flow   *flowdomain.Flow
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migration.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	db := setupTestDB(t)
	log := zap.NewNop()
	cfg := config.Config{DefaultCountryCode: "55"}

	node, err := snowflake.NewNode(11)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	eng := &recordingEngine{}
	registry := extractors.NewRegistry(generic.New(), kiwify.New())

	contacts := contactsvc.New(contactsvc.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Cfg:   cfg,
		Repo:  contactrepo.Provide(),
	})
	tickets := ticketsvc.New(ticketsvc.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  ticketrepo.Provide(),
	})
	dispatcher := dispatch.New(dispatch.Params{
		DB:       db,
		Log:      log,
		Cfg:      cfg,
		Repo:     repository.Provide(),
		Contacts: contacts,
		Tickets:  tickets,
		Channels: channelrepo.Provide(),
		Engine:   eng,
		Vars:     flowvars.NewStore(flowvars.Config{}),
	})
	svc := service.New(service.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Repo:       repository.Provide(),
		Flows:      flowrepo.Provide(),
		Extractors: registry,
		Dispatcher: dispatcher,
		Metrics:    m,
	})

	e := &env{db: db, svc: svc, engine: eng}
	e.seed(t, node)
	return e
}

// seed creates the active flow, the default channel and the kiwify
// link every happy-path test starts from.
func (e *env) seed(t *testing.T, node *snowflake.Node) {
	t.Helper()

	companyID := node.Generate()
	now := time.Now().UTC()

	e.flow = &flowdomain.Flow{
		ID:        node.Generate(),
		CompanyID: companyID,
		Name:      "Pós-venda",
		Active:    true,
		Definition: []byte(`{
			"nodes": [
				{"id": "start-1", "type": "message"},
				{"id": "end-1", "type": "end"}
			],
			"connections": [{"source": "start-1", "target": "end-1"}]
		}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.db.Create(e.flow).Error; err != nil {
		t.Fatalf("seed flow: %v", err)
	}

	channel := &channeldomain.Channel{
		ID:        node.Generate(),
		CompanyID: companyID,
		Name:      "WhatsApp",
		Status:    "CONNECTED",
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.db.Create(channel).Error; err != nil {
		t.Fatalf("seed channel: %v", err)
	}

	hash, err := domain.NewHash()
	if err != nil {
		t.Fatalf("new hash: %v", err)
	}
	e.link = &domain.WebhookLink{
		ID:          node.Generate(),
		CompanyID:   companyID,
		Name:        "Vendas Kiwify",
		Platform:    "kiwify",
		FlowID:      e.flow.ID,
		WebhookHash: hash,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.db.Create(e.link).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}
}

func (e *env) logRows(t *testing.T) []domain.WebhookLinkLog {
	t.Helper()

	var rows []domain.WebhookLinkLog
	if err := e.db.Order("created_at").Find(&rows).Error; err != nil {
		t.Fatalf("load log rows: %v", err)
	}
	return rows
}

func (e *env) reloadLink(t *testing.T) *domain.WebhookLink {
	t.Helper()

	var link domain.WebhookLink
	if err := e.db.First(&link, "id = ?", e.link.ID).Error; err != nil {
		t.Fatalf("reload link: %v", err)
	}
	return &link
}

func TestProcessKiwifyPayment(t *testing.T) {
	e := setupEnv(t)

	result, err := e.svc.Process(context.Background(), domain.ProcessRequest{
		Hash:      e.link.WebhookHash,
		Payload:   []byte(kiwifyPayload),
		IPAddress: "10.0.0.1",
		UserAgent: "kiwify-webhooks",
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.FlowTriggered {
		t.Fatal("flow not triggered")
	}
	if result.EventType != "order_approved" {
		t.Errorf("event type = %q", result.EventType)
	}
	if result.FlowExecutionID == "" {
		t.Error("missing execution id")
	}
	if result.TicketID == nil {
		t.Fatal("no ticket created")
	}

	var ticket ticketdomain.Ticket
	if err := e.db.First(&ticket, "id = ?", *result.TicketID).Error; err != nil {
		t.Fatalf("load ticket: %v", err)
	}
	if ticket.FlowExecutionID != result.FlowExecutionID {
		t.Errorf("ticket execution id = %q", ticket.FlowExecutionID)
	}
	if ticket.Status != ticketdomain.StatusOpen {
		t.Errorf("ticket status = %q", ticket.Status)
	}

	var contact contactdomain.Contact
	if err := e.db.First(&contact, "id = ?", ticket.ContactID).Error; err != nil {
		t.Fatalf("load contact: %v", err)
	}
	if contact.Number != "5511999999999" {
		t.Errorf("contact number = %q", contact.Number)
	}
	if contact.Name != "Joana Prado" {
		t.Errorf("contact name = %q", contact.Name)
	}

	rows := e.logRows(t)
	if len(rows) != 1 {
		t.Fatalf("log rows = %d", len(rows))
	}
	row := rows[0]
	if row.HTTPStatus != 200 {
		t.Errorf("http status = %d", row.HTTPStatus)
	}
	if !row.FlowTriggered {
		t.Error("log row not marked triggered")
	}
	if row.FlowExecutionID != result.FlowExecutionID {
		t.Errorf("log execution id = %q", row.FlowExecutionID)
	}
	if len(row.PayloadProcessed) == 0 {
		t.Error("payload_processed empty")
	}

	link := e.reloadLink(t)
	if link.TotalRequests != 1 || link.SuccessfulRequests != 1 {
		t.Errorf("counters = %d/%d", link.TotalRequests, link.SuccessfulRequests)
	}
	if link.LastRequestAt == nil {
		t.Error("last_request_at not set")
	}

	if len(e.engine.requests) != 1 {
		t.Fatalf("engine calls = %d", len(e.engine.requests))
	}
	if e.engine.requests[0].StartNodeID != "start-1" {
		t.Errorf("start node = %q", e.engine.requests[0].StartNodeID)
	}
}

func TestProcessUnknownHash(t *testing.T) {
	e := setupEnv(t)

	_, err := e.svc.Process(context.Background(), domain.ProcessRequest{
		Hash:    "deadbeef",
		Payload: []byte(`{}`),
	})
	if !errors.Is(err, domain.ErrLinkNotFound) {
		t.Fatalf("err = %v, want ErrLinkNotFound", err)
	}

	rows := e.logRows(t)
	if len(rows) != 1 {
		t.Fatalf("log rows = %d", len(rows))
	}
	row := rows[0]
	if row.HTTPStatus != 404 {
		t.Errorf("http status = %d", row.HTTPStatus)
	}
	if row.WebhookLinkID != nil {
		t.Error("log row must not reference a link")
	}
	if row.Platform != "unknown" {
		t.Errorf("platform = %q", row.Platform)
	}
	if row.EventType != domain.EventTypeNotFound {
		t.Errorf("event type = %q", row.EventType)
	}

	link := e.reloadLink(t)
	if link.TotalRequests != 0 {
		t.Errorf("total requests = %d, want untouched", link.TotalRequests)
	}
}

func TestProcessInactiveLink(t *testing.T) {
	e := setupEnv(t)

	if err := e.db.Model(e.link).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate link: %v", err)
	}

	_, err := e.svc.Process(context.Background(), domain.ProcessRequest{
		Hash:    e.link.WebhookHash,
		Payload: []byte(kiwifyPayload),
	})
	if !errors.Is(err, domain.ErrLinkNotFound) {
		t.Fatalf("err = %v, want ErrLinkNotFound", err)
	}

	rows := e.logRows(t)
	if len(rows) != 1 || rows[0].HTTPStatus != 404 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestProcessInactiveFlow(t *testing.T) {
	e := setupEnv(t)

	if err := e.db.Model(e.flow).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate flow: %v", err)
	}

	_, err := e.svc.Process(context.Background(), domain.ProcessRequest{
		Hash:    e.link.WebhookHash,
		Payload: []byte(kiwifyPayload),
	})
	if !errors.Is(err, domain.ErrFlowInactive) {
		t.Fatalf("err = %v, want ErrFlowInactive", err)
	}

	rows := e.logRows(t)
	if len(rows) != 1 {
		t.Fatalf("log rows = %d", len(rows))
	}
	row := rows[0]
	if row.HTTPStatus != 422 {
		t.Errorf("http status = %d", row.HTTPStatus)
	}
	if row.WebhookLinkID == nil || *row.WebhookLinkID != e.link.ID {
		t.Error("log row must reference the link")
	}
	if row.EventType != domain.EventTypeFlowInactive {
		t.Errorf("event type = %q", row.EventType)
	}

	link := e.reloadLink(t)
	if link.TotalRequests != 1 {
		t.Errorf("total requests = %d", link.TotalRequests)
	}
	if link.SuccessfulRequests != 0 {
		t.Errorf("successful requests = %d", link.SuccessfulRequests)
	}
}

func TestProcessEngineFailure(t *testing.T) {
	e := setupEnv(t)
	e.engine.err = errors.New("engine unavailable")

	_, err := e.svc.Process(context.Background(), domain.ProcessRequest{
		Hash:    e.link.WebhookHash,
		Payload: []byte(kiwifyPayload),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	rows := e.logRows(t)
	if len(rows) != 1 {
		t.Fatalf("log rows = %d", len(rows))
	}
	row := rows[0]
	if row.HTTPStatus != 500 {
		t.Errorf("http status = %d", row.HTTPStatus)
	}
	if row.EventType != domain.EventTypeProcessingError {
		t.Errorf("event type = %q", row.EventType)
	}
	if row.ErrorMessage == "" {
		t.Error("error message empty")
	}

	link := e.reloadLink(t)
	if link.TotalRequests != 1 || link.SuccessfulRequests != 0 {
		t.Errorf("counters = %d/%d", link.TotalRequests, link.SuccessfulRequests)
	}
}

func TestProcessGenericFallback(t *testing.T) {
	e := setupEnv(t)

	if err := e.db.Model(e.link).Update("platform", "minha-loja").Error; err != nil {
		t.Fatalf("retag link: %v", err)
	}

	result, err := e.svc.Process(context.Background(), domain.ProcessRequest{
		Hash: e.link.WebhookHash,
		Payload: []byte(`{
			"event": "sale.completed",
			"transaction_id": "TT-7",
			"customer": {"name": "Rui", "phone": "11988887777", "email": "rui@example.com"},
			"amount": "49.90"
		}`),
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.FlowTriggered {
		t.Fatal("flow not triggered")
	}
	if result.EventType != "sale.completed" {
		t.Errorf("event type = %q", result.EventType)
	}
}

func TestInspectWritesNothing(t *testing.T) {
	e := setupEnv(t)

	result, err := e.svc.Inspect(context.Background(), e.link.WebhookHash)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if result.Name != e.link.Name || result.Platform != "kiwify" {
		t.Errorf("result = %+v", result)
	}
	if !result.Active || !result.FlowActive {
		t.Error("link and flow must report active")
	}
	if result.FlowName != e.flow.Name {
		t.Errorf("flow name = %q", result.FlowName)
	}

	if rows := e.logRows(t); len(rows) != 0 {
		t.Errorf("inspect wrote %d log rows", len(rows))
	}
	link := e.reloadLink(t)
	if link.TotalRequests != 0 {
		t.Error("inspect must not count requests")
	}

	if _, err := e.svc.Inspect(context.Background(), "missing"); !errors.Is(err, domain.ErrLinkNotFound) {
		t.Fatalf("err = %v, want ErrLinkNotFound", err)
	}
}
