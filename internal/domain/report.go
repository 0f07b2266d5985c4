package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the lifecycle state of a report document.
type ReportStatus string

const (
	ReportStatusGenerating ReportStatus = "generating"
	ReportStatusReady      ReportStatus = "ready"
	ReportStatusFailed     ReportStatus = "failed"
)

// Retry progression for a report's automatic recovery. The reaper moves a
// stuck report from fresh to retried-once (a re-queue signal for the next
// scheduler cycle) and from retried-once to exhausted (terminal).
const (
	RetryFresh       = 0
	RetryRetriedOnce = 1
	RetryExhausted   = 2
)

// SectionCrisisResources is the id of the crisis-support section. It exists
// only in the personal view and is removed before any sharing or export.
const SectionCrisisResources = "crisis_resources"

// Section is one narrative block of a report. EntryRefs point to the journal
// entries the narrative was built from and are the unit of redaction.
type Section struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Narrative string             `json:"narrative"`
	EntryRefs []uuid.UUID        `json:"entryRefs"`
	ChartData map[string]float64 `json:"chartData,omitempty"`
}

// ReportMetadata is aggregate display data attached to a report. It is
// produced by the generation pipeline and opaque to the lifecycle core.
type ReportMetadata struct {
	EntryCount  int      `json:"entryCount"`
	MoodAverage float64  `json:"moodAverage"`
	Highlights  []string `json:"highlights,omitempty"`
}

// Report is one life-report document per (user, cadence, period).
type Report struct {
	ID          string
	UserID      uuid.UUID
	Cadence     Cadence
	Status      ReportStatus
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedAt time.Time
	RetryCount  int
	Sections    []Section
	Metadata    ReportMetadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Retriable reports whether the document failed once and is still owed its
// single automatic retry.
func (r *Report) Retriable() bool {
	return r.Status == ReportStatusFailed && r.RetryCount == RetryRetriedOnce
}

// NeedsGeneration reports whether a scheduler cycle should attempt
// generation for this document. Ready reports are done; generating reports
// belong to the reaper; failed reports get exactly one re-attempt before
// they are terminal.
func (r *Report) NeedsGeneration() bool {
	switch r.Status {
	case ReportStatusReady, ReportStatusGenerating:
		return false
	case ReportStatusFailed:
		return r.RetryCount < RetryExhausted
	}
	return false
}

// EntryRefs collects all entry references across sections, preserving order.
func (r *Report) EntryRefs() []uuid.UUID {
	var refs []uuid.UUID
	for _, s := range r.Sections {
		refs = append(refs, s.EntryRefs...)
	}
	return refs
}
