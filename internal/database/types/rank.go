package types

import "time"

// ScoreAggregate is the per-recipient summary of the ledger.
type ScoreAggregate struct {
	UserID           uint64    `bun:"user_id"`
	Score            int64     `bun:"score"`
	EarliestActivity time.Time `bun:"earliest_activity"`
	LatestActivity   time.Time `bun:"latest_activity"`
}

// RankEntry is a scored and ranked member derived from the ledger.
// Rank starts at 1; a zero Rank means the member has no entries yet.
type RankEntry struct {
	ScoreAggregate

	Rank int
}

// Ranked reports whether the member has at least one ledger entry.
func (r *RankEntry) Ranked() bool {
	return r.Rank > 0
}
