package reportgen

import (
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// threshold is the minimum journaling activity a period must show before a
// report is worth generating. Sparse periods produce no report at all
// rather than a thin one.
type threshold struct {
	minEntries int
	minDays    int
}

// thresholds gate each cadence. Both bounds are inclusive: a period with
// exactly minEntries entries across exactly minDays distinct days is
// eligible.
var thresholds = map[domain.Cadence]threshold{
	domain.CadenceWeekly:    {minEntries: 3, minDays: 2},
	domain.CadenceMonthly:   {minEntries: 8, minDays: 5},
	domain.CadenceQuarterly: {minEntries: 20, minDays: 12},
	domain.CadenceAnnual:    {minEntries: 60, minDays: 30},
}

// eligible reports whether the observed activity clears the cadence's
// thresholds.
func eligible(c domain.Cadence, stats domain.EntryStats) bool {
	t, ok := thresholds[c]
	if !ok {
		return false
	}
	return stats.Count >= t.minEntries && stats.DistinctDays >= t.minDays
}

// premiumOnly reports whether the cadence requires a premium subscription.
// Weekly reports are part of the free tier.
func premiumOnly(c domain.Cadence) bool {
	return c != domain.CadenceWeekly
}
