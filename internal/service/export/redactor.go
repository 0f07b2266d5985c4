package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Redact applies the user's privacy preferences to sections bound for
// export: hidden sections are removed, then crisis content is stripped once
// more, then anonymized names are replaced throughout titles and narratives.
// The crisis strip covers both the crisis_resources section and entry
// references resolving flagged or unknown in idx, so the stage stays safe
// even when used without the visibility filter in front. The input is
// treated as a snapshot; returned sections never alias the stored report.
func Redact(sections []domain.Section, idx domain.SafetyIndex, prefs *domain.PrivacyPreferences) []domain.Section {
	replacer := nameReplacer(prefs.AnonymizedEntities)

	out := make([]domain.Section, 0, len(sections))
	for _, s := range sections {
		if prefs.HidesSection(s.ID) {
			continue
		}
		// The visibility filter already dropped this section; keep the
		// guarantee local so a future caller cannot regress it.
		if s.ID == domain.SectionCrisisResources {
			continue
		}

		s.EntryRefs = stripUnsafeRefs(s.EntryRefs, idx)
		s.Title = replacer(s.Title)
		s.Narrative = replacer(s.Narrative)
		out = append(out, s)
	}
	return out
}

// stripUnsafeRefs drops entry references that resolve flagged, and — fail
// closed — references idx does not know at all.
func stripUnsafeRefs(refs []uuid.UUID, idx domain.SafetyIndex) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		safety, ok := idx.Resolve(ref)
		if !ok || safety.Flagged {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// nameReplacer builds a function replacing each entity with "Person A",
// "Person B", ... by supply order. Matching is case-insensitive and
// whole-name: "Sam" never matches inside "Samantha".
func nameReplacer(entities []string) func(string) string {
	if len(entities) == 0 {
		return func(s string) string { return s }
	}

	type rule struct {
		re          *regexp.Regexp
		placeholder string
	}

	rules := make([]rule, 0, len(entities))
	label := 0
	for _, name := range entities {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		// Word boundaries only apply next to word characters; a name like
		// "J. R." ends on punctuation and gets no trailing anchor.
		pattern := regexp.QuoteMeta(name)
		if isWordChar(rune(name[0])) {
			pattern = `\b` + pattern
		}
		if isWordChar(rune(name[len(name)-1])) {
			pattern += `\b`
		}
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			continue
		}
		rules = append(rules, rule{re: re, placeholder: placeholder(label)})
		label++
	}

	return func(s string) string {
		for _, r := range rules {
			s = r.re.ReplaceAllString(s, r.placeholder)
		}
		return s
	}
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// placeholder labels entities "Person A" .. "Person Z", then "Person 27"
// onwards. Journals with more than 26 anonymized people are not a case
// worth a richer scheme.
func placeholder(i int) string {
	if i < 26 {
		return fmt.Sprintf("Person %c", 'A'+i)
	}
	return fmt.Sprintf("Person %d", i+1)
}
