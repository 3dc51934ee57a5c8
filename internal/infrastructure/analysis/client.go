// Package analysis is the HTTP client for the remote logic analysis backend.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/performance"
)

// Backend endpoints, relative to the configured origin.
const (
	EndpointIndex      = "/"
	EndpointTruthTable = "/generate_truth_table"
	EndpointKMap       = "/generate_kmap"
	EndpointVerilog    = "/generate_verilog"
)

const maxResponseBytes = 16 << 20

type expressionRequest struct {
	Expression string `json:"expression"`
}

// envelope is the strictly decoded part of every analysis response.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Client talks to the analysis backend. Calls are independent and never retried.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	metrics     *metrics.Collector
}

// NewClient creates a backend client. A zero timeout leaves requests bounded
// only by their context.
func NewClient(baseURL string, timeout time.Duration, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, collector *metrics.Collector) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
		perfTracker: perfTracker,
		metrics:     collector,
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping probes the backend root. Any 2xx status means reachable, even when
// the body is not the expected index document.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Index(ctx)
	if err != nil && !errors.Is(err, ErrDecode) {
		return err
	}
	return nil
}

// Index fetches the backend's descriptive root document.
func (c *Client) Index(ctx context.Context) (*logic.BackendIndex, error) {
	start := time.Now()
	marker := c.perfTracker.StartOperation("backend:index", sessionFrom(ctx))
	defer marker.Complete()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+EndpointIndex, nil)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, status, err := c.do(req)
	c.record(EndpointIndex, status, start, err)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	var index logic.BackendIndex
	if err := json.Unmarshal(body, &index); err != nil {
		err = fmt.Errorf("%w: index: %v", ErrDecode, err)
		marker.SetError(err)
		return nil, err
	}
	return &index, nil
}

// GenerateTruthTable requests the truth table for an expression.
func (c *Client) GenerateTruthTable(ctx context.Context, expression string) (*logic.TruthTablePayload, error) {
	var payload logic.TruthTablePayload
	if err := c.post(ctx, EndpointTruthTable, expression, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GenerateKmap requests the Karnaugh map and simplified form for an expression.
func (c *Client) GenerateKmap(ctx context.Context, expression string) (*logic.KMapPayload, error) {
	var payload logic.KMapPayload
	if err := c.post(ctx, EndpointKMap, expression, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GenerateVerilog requests generated HDL and its simulation for an expression.
func (c *Client) GenerateVerilog(ctx context.Context, expression string) (*logic.VerilogPayload, error) {
	var payload logic.VerilogPayload
	if err := c.post(ctx, EndpointVerilog, expression, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) post(ctx context.Context, endpoint, expression string, out any) error {
	start := time.Now()
	marker := c.perfTracker.StartOperation("backend:"+strings.TrimPrefix(endpoint, "/"), sessionFrom(ctx))
	defer marker.Complete()

	reqBody, err := json.Marshal(expressionRequest{Expression: expression})
	if err != nil {
		marker.SetError(err)
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		marker.SetError(err)
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err == nil {
		err = decodeEnvelope(body, out)
	}
	c.record(endpoint, status, start, err)
	if err != nil {
		marker.SetError(err)
		return err
	}
	return nil
}

// do sends the request and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{StatusCode: resp.StatusCode}
	}
	return body, resp.StatusCode, nil
}

func decodeEnvelope(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if env.Success == nil {
		return fmt.Errorf("%w: missing success field", ErrDecode)
	}
	if !*env.Success {
		return &EnvelopeError{Message: env.Error}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func (c *Client) record(endpoint string, status int, start time.Time, err error) {
	duration := time.Since(start)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	c.metrics.ObserveBackend(endpoint, outcome, duration)
	c.logger.LogBackendCall(endpoint, status, err == nil, duration, err)
}

func sessionFrom(ctx context.Context) string {
	if id, ok := ctx.Value(logging.SessionIDKey).(string); ok {
		return id
	}
	return ""
}
