package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Document is the redacted report snapshot sent to the rendering service.
// It carries everything the PDF template needs; entry ids never appear in
// the rendered output, only the narratives built from them.
type Document struct {
	ReportID    string                `json:"reportId"`
	Cadence     domain.Cadence        `json:"cadence"`
	PeriodStart time.Time             `json:"periodStart"`
	PeriodEnd   time.Time             `json:"periodEnd"`
	Sections    []domain.Section      `json:"sections"`
	Metadata    domain.ReportMetadata `json:"metadata"`
}

// Client renders report documents to PDF via the rendering service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from config.
func NewClient(cfg config.RenderConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "render"),
	}
}

// Render sends the document and returns the PDF bytes.
func (c *Client) Render(ctx context.Context, doc Document) ([]byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render: encode document: %w", err)
	}

	c.log.DebugContext(ctx, "render request",
		slog.String("report_id", doc.ReportID),
		slog.Int("sections", len(doc.Sections)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("render: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "render request failed",
			slog.String("report_id", doc.ReportID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("render: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("render: unexpected status %d", resp.StatusCode)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("render: read body: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("render: empty document")
	}

	return pdf, nil
}
