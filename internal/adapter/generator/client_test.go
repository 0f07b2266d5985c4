package generator

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJob() Request {
	return Request{
		UserID:      uuid.New(),
		ReportID:    "weekly-2026-08-17",
		Cadence:     domain.CadenceWeekly,
		PeriodStart: time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 23, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.GeneratorConfig{BaseURL: baseURL, Timeout: 5 * time.Second}, testLogger())
}

func TestClient_Generate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/generate" {
			t.Errorf("path = %s, want /v1/generate", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	job := testJob()
	if err := newTestClient(srv.URL).Generate(context.Background(), job); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if got.ReportID != job.ReportID {
		t.Errorf("report id = %q, want %q", got.ReportID, job.ReportID)
	}
	if got.Cadence != job.Cadence {
		t.Errorf("cadence = %q, want %q", got.Cadence, job.Cadence)
	}
	if got.UserID != job.UserID {
		t.Errorf("user id = %s, want %s", got.UserID, job.UserID)
	}
}

func TestClient_Generate_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// The retried request must carry the body again.
		var job Request
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			t.Errorf("decode retried body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Generate(context.Background(), testJob()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server calls = %d, want 2", n)
	}
}

func TestClient_Generate_FailsAfterRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Generate(context.Background(), testJob())
	if err == nil {
		t.Fatal("Generate() error = nil, want error")
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server calls = %d, want 2", n)
	}
}

func TestClient_Generate_RejectedJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Generate(context.Background(), testJob()); err == nil {
		t.Fatal("Generate() error = nil, want error")
	}
}
