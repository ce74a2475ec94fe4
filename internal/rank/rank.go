// Package rank turns per-member score aggregates into an ordered, dense-ranked scoreboard.
//
// Ordering is score descending, then most recent activity first, then user id ascending so
// that the result is fully deterministic. Ranks are dense over score alone: members sharing a
// score share a rank and the next distinct score takes the following rank with no gaps.
//
// Computing a scoreboard costs O(U log U) for U distinct recipients on every call.
package rank

import (
	"cmp"
	"slices"

	"github.com/robalyx/leo/internal/database/types"
)

// Dense orders the aggregates and assigns dense ranks starting at 1.
// The input slice is not modified.
func Dense(aggregates []*types.ScoreAggregate) []*types.RankEntry {
	entries := make([]*types.RankEntry, 0, len(aggregates))
	for _, agg := range aggregates {
		entries = append(entries, &types.RankEntry{ScoreAggregate: *agg})
	}

	slices.SortFunc(entries, compare)

	rank := 0
	for i, entry := range entries {
		if i == 0 || entry.Score != entries[i-1].Score {
			rank++
		}
		entry.Rank = rank
	}

	return entries
}

// Of finds the entry for a user in a ranked list.
// Users without entries get a zero score and no rank.
func Of(entries []*types.RankEntry, userID uint64) *types.RankEntry {
	for _, entry := range entries {
		if entry.UserID == userID {
			return entry
		}
	}

	return &types.RankEntry{ScoreAggregate: types.ScoreAggregate{UserID: userID}}
}

// Page returns the slice of entries shown on a 1-based page together with the page count.
// Pages beyond the last one are empty.
func Page(entries []*types.RankEntry, page, perPage int) ([]*types.RankEntry, int) {
	if perPage <= 0 {
		perPage = 10
	}

	pages := max((len(entries)+perPage-1)/perPage, 1)
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	if start >= len(entries) {
		return nil, pages
	}

	return entries[start:min(start+perPage, len(entries))], pages
}

func compare(a, b *types.RankEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}

	if c := b.LatestActivity.Compare(a.LatestActivity); c != 0 {
		return c
	}

	return cmp.Compare(a.UserID, b.UserID)
}
