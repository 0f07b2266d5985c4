package domain

import "github.com/google/uuid"

// EntrySafety is the safety classification of a journal entry. It is derived
// by the insight pipeline and read-only here.
type EntrySafety struct {
	Flagged           bool // crisis-adjacent content; never leaves personal view
	WarningIndicators bool // softer warning signals; excluded from exports
}

// SafetyIndex maps entry ids to their safety classification. An entry absent
// from the index has no resolvable metadata and must be treated as flagged.
type SafetyIndex map[uuid.UUID]EntrySafety

// Resolve returns the classification for an entry and whether the entry is
// known. Callers must treat unknown entries as unsafe — the rule is
// fail-closed, never fail-open.
func (idx SafetyIndex) Resolve(id uuid.UUID) (EntrySafety, bool) {
	s, ok := idx[id]
	return s, ok
}
