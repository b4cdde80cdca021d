package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const executeTimeout = 30 * time.Second

// httpEngine invokes a remote flow engine over HTTP.
type httpEngine struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewHTTPEngine(url string, log *zap.Logger) Engine {
	return &httpEngine{
		url:    url,
		client: &http.Client{Timeout: executeTimeout},
		log:    log.Named("engine.http"),
	}
}

func (e *httpEngine) Execute(ctx context.Context, req ExecuteRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode execute request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("flow engine request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("flow engine returned %d: %s", resp.StatusCode, string(detail))
	}

	e.log.Info("flow execution started",
		zap.String("execution_id", req.ExecutionID),
		zap.String("start_node", req.StartNodeID))

	return nil
}

// noopEngine acknowledges executions locally when no engine endpoint
// is configured.
type noopEngine struct {
	log *zap.Logger
}

func NewNoopEngine(log *zap.Logger) Engine {
	return &noopEngine{log: log.Named("engine.noop")}
}

func (e *noopEngine) Execute(ctx context.Context, req ExecuteRequest) error {
	_ = ctx
	e.log.Info("flow execution acknowledged locally, no engine configured",
		zap.String("execution_id", req.ExecutionID),
		zap.String("flow_id", req.FlowID.String()),
		zap.String("start_node", req.StartNodeID),
		zap.Int("variables", len(req.Variables)))
	return nil
}
