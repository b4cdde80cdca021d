package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	flowdomain "github.com/atendely/flowhook/internal/flow/domain"
	"github.com/atendely/flowhook/internal/observability/metrics"
	"github.com/atendely/flowhook/internal/webhook/dispatch"
	"github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/atendely/flowhook/internal/webhook/extractors"
	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const unknownPlatform = "unknown"

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Flows      flowdomain.Repository
	Extractors *extractors.Registry
	Dispatcher dispatch.Dispatcher
	Metrics    *metrics.Metrics
}

// Service is the webhook receiver: it owns the link lookup, the
// normalization step, dispatching and the always-written audit trail.
type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	flows      flowdomain.Repository
	extractors *extractors.Registry
	dispatcher dispatch.Dispatcher
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("webhook.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		flows:      p.Flows,
		extractors: p.Extractors,
		dispatcher: p.Dispatcher,
		metrics:    p.Metrics,
	}
}

func (s *Service) Process(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResult, error) {
	start := time.Now()

	link, err := s.repo.FindByHash(ctx, s.db, req.Hash)
	if err != nil {
		return nil, fmt.Errorf("lookup webhook link: %w", err)
	}

	if link == nil || !link.Active {
		s.log.Warn("webhook link not found or inactive", zap.String("hash", req.Hash))
		s.writeLog(ctx, &domain.WebhookLinkLog{
			Platform:       unknownPlatform,
			EventType:      domain.EventTypeNotFound,
			PayloadRaw:     req.Payload,
			HTTPStatus:     404,
			ResponseTimeMs: elapsedMs(start),
			ErrorMessage:   fmt.Sprintf("webhook link not found: %s", req.Hash),
			IPAddress:      req.IPAddress,
			UserAgent:      req.UserAgent,
		})
		s.metrics.RecordWebhookRequest(ctx, unknownPlatform, domain.EventTypeNotFound, 404)
		return nil, domain.ErrLinkNotFound
	}

	flow, err := s.flows.FindByID(ctx, s.db, link.FlowID)
	if err != nil {
		s.failRequest(ctx, start, link, req, err)
		return nil, fmt.Errorf("lookup flow: %w", err)
	}

	if flow == nil || !flow.Active {
		s.log.Warn("flow inactive or missing",
			zap.String("link", link.Name),
			zap.String("flow_id", link.FlowID.String()))
		s.writeLog(ctx, &domain.WebhookLinkLog{
			WebhookLinkID:  &link.ID,
			CompanyID:      &link.CompanyID,
			Platform:       link.Platform,
			EventType:      domain.EventTypeFlowInactive,
			PayloadRaw:     req.Payload,
			HTTPStatus:     422,
			ResponseTimeMs: elapsedMs(start),
			ErrorMessage:   "flow inactive or missing",
			IPAddress:      req.IPAddress,
			UserAgent:      req.UserAgent,
		})
		s.countRequest(ctx, link, false)
		s.metrics.RecordWebhookRequest(ctx, link.Platform, domain.EventTypeFlowInactive, 422)
		return nil, domain.ErrFlowInactive
	}

	extractor := s.extractors.Lookup(link.Platform)
	event := extractor.Extract(req.Payload)
	eventType := extractor.EventType(req.Payload)
	executionID := ulid.Make().String()

	s.log.Info("processing webhook",
		zap.String("link", link.Name),
		zap.String("platform", link.Platform),
		zap.String("event_type", eventType),
		zap.String("execution_id", executionID))

	result, err := s.dispatcher.Trigger(ctx, dispatch.Request{
		Link:        link,
		Flow:        flow,
		Event:       event,
		EventType:   eventType,
		ExecutionID: executionID,
	})
	if err != nil {
		s.failRequest(ctx, start, link, req, err)
		return nil, err
	}

	processed, _ := json.Marshal(result.Variables)
	s.writeLog(ctx, &domain.WebhookLinkLog{
		WebhookLinkID:    &link.ID,
		CompanyID:        &link.CompanyID,
		Platform:         link.Platform,
		EventType:        eventType,
		PayloadRaw:       req.Payload,
		PayloadProcessed: processed,
		FlowTriggered:    result.FlowTriggered,
		FlowExecutionID:  executionID,
		HTTPStatus:       200,
		ResponseTimeMs:   elapsedMs(start),
		IPAddress:        req.IPAddress,
		UserAgent:        req.UserAgent,
	})
	s.countRequest(ctx, link, true)

	s.metrics.RecordWebhookRequest(ctx, link.Platform, eventType, 200)
	if result.FlowTriggered {
		s.metrics.RecordFlowTriggered(ctx, link.Platform)
	}
	if result.TicketID != nil {
		s.metrics.RecordTicketOpened(ctx, link.Platform)
	}

	return &domain.ProcessResult{
		FlowTriggered:   result.FlowTriggered,
		EventType:       eventType,
		FlowExecutionID: executionID,
		TicketID:        result.TicketID,
		Variables:       result.Variables,
	}, nil
}

func (s *Service) Inspect(ctx context.Context, hash string) (*domain.InspectResult, error) {
	link, err := s.repo.FindByHash(ctx, s.db, hash)
	if err != nil {
		return nil, fmt.Errorf("lookup webhook link: %w", err)
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}

	result := domain.InspectResult{
		Name:     link.Name,
		Platform: link.Platform,
		Active:   link.Active,
	}

	flow, err := s.flows.FindByID(ctx, s.db, link.FlowID)
	if err != nil {
		return nil, fmt.Errorf("lookup flow: %w", err)
	}
	if flow != nil {
		result.FlowName = flow.Name
		result.FlowActive = flow.Active
	}

	return &result, nil
}

// failRequest records the 500 exit path: audit row plus the counted,
// unsuccessful request.
func (s *Service) failRequest(ctx context.Context, start time.Time, link *domain.WebhookLink, req domain.ProcessRequest, cause error) {
	s.log.Error("webhook processing failed",
		zap.String("link", link.Name),
		zap.String("platform", link.Platform),
		zap.Error(cause))
	s.writeLog(ctx, &domain.WebhookLinkLog{
		WebhookLinkID:  &link.ID,
		CompanyID:      &link.CompanyID,
		Platform:       link.Platform,
		EventType:      domain.EventTypeProcessingError,
		PayloadRaw:     req.Payload,
		HTTPStatus:     500,
		ResponseTimeMs: elapsedMs(start),
		ErrorMessage:   cause.Error(),
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
	})
	s.countRequest(ctx, link, false)
	s.metrics.RecordWebhookRequest(ctx, link.Platform, domain.EventTypeProcessingError, 500)
}

// writeLog persists one audit row. Failures are logged and swallowed;
// audit writes never change the caller's response.
func (s *Service) writeLog(ctx context.Context, row *domain.WebhookLinkLog) {
	row.ID = s.genID.Generate()
	row.CreatedAt = time.Now().UTC()
	if len(row.PayloadRaw) == 0 {
		row.PayloadRaw = []byte("{}")
	}
	if err := s.repo.CreateLog(ctx, s.db, row); err != nil {
		s.log.Error("audit log write failed", zap.Error(err))
	}
}

func (s *Service) countRequest(ctx context.Context, link *domain.WebhookLink, success bool) {
	if err := s.repo.IncrementCounters(ctx, s.db, link.ID, success); err != nil {
		s.log.Error("counter update failed",
			zap.String("link_id", link.ID.String()),
			zap.Error(err))
	}
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
