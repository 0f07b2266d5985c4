package domain

// EntryStats summarizes a user's journaling activity inside a period. It is
// the input to eligibility decisions; entry content never appears here.
type EntryStats struct {
	Count        int
	DistinctDays int
}
