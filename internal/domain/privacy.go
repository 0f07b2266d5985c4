package domain

import "github.com/google/uuid"

// PrivacyPreferences holds a user's export redaction choices for one report.
// They are user-authored and read-only to the lifecycle core; the zero value
// means no redaction beyond the mandatory safety tier.
type PrivacyPreferences struct {
	UserID   uuid.UUID
	ReportID string

	// HiddenSections are section ids suppressed in the user's own exports.
	HiddenSections []string

	// AnonymizedEntities are real names replaced with placeholder labels,
	// in the order the user supplied them.
	AnonymizedEntities []string
}

// HidesSection reports whether the given section id is hidden.
func (p *PrivacyPreferences) HidesSection(id string) bool {
	for _, s := range p.HiddenSections {
		if s == id {
			return true
		}
	}
	return false
}
