// Package visibility strips report content down to what a given audience
// may see. Filtering is pure and always operates on copies; the stored
// report is never modified.
package visibility

import (
	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Tier is the audience a report view is prepared for. Each tier sees at
// most what the previous one does.
type Tier string

const (
	// TierPersonal is the report owner's own view. Nothing is removed.
	TierPersonal Tier = "personal"

	// TierShareable is for in-app sharing. Crisis-support content and
	// references to safety-flagged entries are removed.
	TierShareable Tier = "shareable"

	// TierExport is for documents that leave the product. On top of the
	// shareable rules, references to entries with warning indicators are
	// removed.
	TierExport Tier = "export"
)

// Filter returns the sections visible at the given tier. Entry references
// whose safety state is unknown to idx are treated as flagged and removed
// at every tier below personal.
func Filter(tier Tier, sections []domain.Section, idx domain.SafetyIndex) []domain.Section {
	if tier == TierPersonal {
		return cloneSections(sections)
	}

	out := make([]domain.Section, 0, len(sections))
	for _, s := range sections {
		if s.ID == domain.SectionCrisisResources {
			continue
		}

		filtered := cloneSection(s)
		filtered.EntryRefs = filterRefs(tier, s.EntryRefs, idx)
		out = append(out, filtered)
	}
	return out
}

func filterRefs(tier Tier, refs []uuid.UUID, idx domain.SafetyIndex) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		safety, ok := idx.Resolve(ref)
		if !ok {
			// Unknown entries are excluded rather than leaked.
			continue
		}
		if safety.Flagged {
			continue
		}
		if tier == TierExport && safety.WarningIndicators {
			continue
		}
		out = append(out, ref)
	}
	return out
}

func cloneSections(sections []domain.Section) []domain.Section {
	out := make([]domain.Section, len(sections))
	for i, s := range sections {
		out[i] = cloneSection(s)
	}
	return out
}

func cloneSection(s domain.Section) domain.Section {
	c := s
	c.EntryRefs = append([]uuid.UUID(nil), s.EntryRefs...)
	if s.ChartData != nil {
		c.ChartData = make(map[string]float64, len(s.ChartData))
		for k, v := range s.ChartData {
			c.ChartData[k] = v
		}
	}
	return c
}
