package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Request describes one generation job handed to the content service. The
// content service owns the rest of the attempt: it writes sections and
// metadata and moves the report to ready or failed on its own.
type Request struct {
	UserID      uuid.UUID      `json:"userId"`
	ReportID    string         `json:"reportId"`
	Cadence     domain.Cadence `json:"cadence"`
	PeriodStart time.Time      `json:"periodStart"`
	PeriodEnd   time.Time      `json:"periodEnd"`
}

// Client submits generation jobs to the report-content service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from config.
func NewClient(cfg config.GeneratorConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "generator"),
	}
}

// Generate submits one generation job. It returns once the content service
// has accepted the job; completion is observed through the report row.
func (c *Client) Generate(ctx context.Context, job Request) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("generator: encode request: %w", err)
	}

	c.log.DebugContext(ctx, "generator request",
		slog.String("user_id", job.UserID.String()),
		slog.String("report_id", job.ReportID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("generator: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doWithRetry(ctx, req, body, job.ReportID)
	if err != nil {
		c.log.ErrorContext(ctx, "generator request failed",
			slog.String("report_id", job.ReportID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("generator: request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generator: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The body is replayed from the encoded bytes.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body []byte, reportID string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "generator retry",
		slog.String("report_id", reportID),
		slog.String("reason", reason),
	)

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retryReq := req.Clone(ctx)
	retryReq.Body = io.NopCloser(bytes.NewReader(body))

	resp, err = c.httpClient.Do(retryReq)
	return resp, err
}
