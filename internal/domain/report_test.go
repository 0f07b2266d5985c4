package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestReport_NeedsGeneration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     ReportStatus
		retryCount int
		want       bool
	}{
		{name: "ready is done", status: ReportStatusReady, retryCount: 0, want: false},
		{name: "generating belongs to the reaper", status: ReportStatusGenerating, retryCount: 0, want: false},
		{name: "failed once gets its retry", status: ReportStatusFailed, retryCount: RetryRetriedOnce, want: true},
		{name: "exhausted is terminal", status: ReportStatusFailed, retryCount: RetryExhausted, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &Report{Status: tt.status, RetryCount: tt.retryCount}
			if got := r.NeedsGeneration(); got != tt.want {
				t.Errorf("NeedsGeneration: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReport_Retriable(t *testing.T) {
	t.Parallel()

	r := &Report{Status: ReportStatusFailed, RetryCount: RetryRetriedOnce}
	if !r.Retriable() {
		t.Error("failed report with one retry recorded should be retriable")
	}

	r.RetryCount = RetryExhausted
	if r.Retriable() {
		t.Error("exhausted report must not be retriable")
	}

	r = &Report{Status: ReportStatusReady, RetryCount: RetryRetriedOnce}
	if r.Retriable() {
		t.Error("ready report must not be retriable")
	}
}

func TestReport_EntryRefs(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r := &Report{Sections: []Section{
		{ID: "mood", EntryRefs: []uuid.UUID{a, b}},
		{ID: "themes", EntryRefs: []uuid.UUID{c}},
		{ID: "empty"},
	}}

	refs := r.EntryRefs()
	if len(refs) != 3 {
		t.Fatalf("refs: got %d, want 3", len(refs))
	}
	if refs[0] != a || refs[1] != b || refs[2] != c {
		t.Error("refs must preserve section order")
	}
}

func TestSafetyIndex_Resolve(t *testing.T) {
	t.Parallel()

	known := uuid.New()
	idx := SafetyIndex{known: {Flagged: true}}

	if s, ok := idx.Resolve(known); !ok || !s.Flagged {
		t.Error("known entry should resolve with its flags")
	}
	if _, ok := idx.Resolve(uuid.New()); ok {
		t.Error("unknown entry must not resolve")
	}
}
