package bottest

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
	"github.com/robalyx/leo/internal/rank"
)

// ErrStorage simulates a storage failure.
var ErrStorage = errors.New("storage unavailable")

type grantKey struct {
	messageID uint64
	giverID   uint64
}

// Ledger is an in-memory ledger with the same reaction uniqueness rule as the schema.
type Ledger struct {
	mu      sync.Mutex
	nextID  int64
	entries []*types.LedgerEntry
	granted map[grantKey]struct{}

	// FailFor makes grants to these recipients fail with ErrStorage.
	FailFor map[uint64]bool
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		granted: make(map[grantKey]struct{}),
		FailFor: make(map[uint64]bool),
	}
}

func (l *Ledger) Grant(_ context.Context, entry *types.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailFor[entry.RecipientID] {
		return ErrStorage
	}

	if entry.Origin == enum.EntryOriginReaction {
		key := grantKey{entry.MessageID, entry.GiverID}
		if _, ok := l.granted[key]; ok {
			return types.ErrDuplicateGrant
		}
		l.granted[key] = struct{}{}
	}

	l.nextID++
	stored := *entry
	stored.ID = l.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	entry.ID = stored.ID
	l.entries = append(l.entries, &stored)

	return nil
}

func (l *Ledger) Rank(_ context.Context) ([]*types.RankEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return rank.Dense(l.aggregates()), nil
}

func (l *Ledger) RankOf(ctx context.Context, userID uint64) (*types.RankEntry, error) {
	entries, err := l.Rank(ctx)
	if err != nil {
		return nil, err
	}
	return rank.Of(entries, userID), nil
}

// Entries returns a copy of every stored entry.
func (l *Ledger) Entries() []types.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.LedgerEntry, len(l.entries))
	for i, entry := range l.entries {
		out[i] = *entry
	}
	return out
}

func (l *Ledger) aggregates() []*types.ScoreAggregate {
	byUser := make(map[uint64]*types.ScoreAggregate)
	var order []uint64

	for _, entry := range l.entries {
		agg, ok := byUser[entry.RecipientID]
		if !ok {
			agg = &types.ScoreAggregate{
				UserID:           entry.RecipientID,
				EarliestActivity: entry.CreatedAt,
				LatestActivity:   entry.CreatedAt,
			}
			byUser[entry.RecipientID] = agg
			order = append(order, entry.RecipientID)
		}

		agg.Score += int64(entry.Delta)
		if entry.CreatedAt.Before(agg.EarliestActivity) {
			agg.EarliestActivity = entry.CreatedAt
		}
		if entry.CreatedAt.After(agg.LatestActivity) {
			agg.LatestActivity = entry.CreatedAt
		}
	}

	out := make([]*types.ScoreAggregate, 0, len(order))
	for _, userID := range order {
		out = append(out, byUser[userID])
	}
	return out
}

type choiceKey struct {
	pollID  int64
	voterID uint64
}

// Polls is an in-memory poll store that enforces the same vote rules as the SQL upsert.
type Polls struct {
	mu           sync.Mutex
	nextPollID   int64
	nextOptionID int64
	polls        map[int64]*types.Poll
	options      map[int64][]*types.PollOption
	choices      map[choiceKey]*types.PollChoice
}

// NewPolls creates an empty poll store.
func NewPolls() *Polls {
	return &Polls{
		polls:   make(map[int64]*types.Poll),
		options: make(map[int64][]*types.PollOption),
		choices: make(map[choiceKey]*types.PollChoice),
	}
}

func (p *Polls) Create(_ context.Context, poll *types.Poll, labels []string) (*types.PollTally, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextPollID++
	poll.ID = p.nextPollID
	stored := *poll
	p.polls[poll.ID] = &stored

	options := make([]*types.PollOption, 0, len(labels))
	for _, label := range labels {
		p.nextOptionID++
		options = append(options, &types.PollOption{ID: p.nextOptionID, PollID: poll.ID, Label: label})
	}
	p.options[poll.ID] = options

	return types.NewPollTally(poll, options, nil), nil
}

func (p *Polls) Tally(_ context.Context, pollID int64) (*types.PollTally, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	poll, ok := p.polls[pollID]
	if !ok {
		return nil, types.ErrPollNotFound
	}

	var choices []*types.PollChoice
	for key, choice := range p.choices {
		if key.pollID == pollID {
			choices = append(choices, choice)
		}
	}
	slices.SortFunc(choices, func(a, b *types.PollChoice) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.VoterID < b.VoterID:
			return -1
		case a.VoterID > b.VoterID:
			return 1
		}
		return 0
	})

	snapshot := *poll
	return types.NewPollTally(&snapshot, p.options[pollID], choices), nil
}

func (p *Polls) Vote(_ context.Context, pollID, optionID int64, voterID uint64, now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	poll, ok := p.polls[pollID]
	if !ok {
		return types.ErrPollNotFound
	}
	if poll.Closed {
		return types.ErrPollClosed
	}
	if !slices.ContainsFunc(p.options[pollID], func(o *types.PollOption) bool { return o.ID == optionID }) {
		return types.ErrOptionNotFound
	}

	key := choiceKey{pollID, voterID}
	if existing, ok := p.choices[key]; ok {
		existing.OptionID = optionID
		existing.UpdatedAt = now
		return nil
	}

	p.choices[key] = &types.PollChoice{
		PollID:    pollID,
		VoterID:   voterID,
		OptionID:  optionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (p *Polls) Close(_ context.Context, pollID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	poll, ok := p.polls[pollID]
	if !ok {
		return types.ErrPollNotFound
	}
	poll.Closed = true
	return nil
}

func (p *Polls) SetMessage(_ context.Context, pollID int64, channelID, messageID uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	poll, ok := p.polls[pollID]
	if !ok {
		return types.ErrPollNotFound
	}
	poll.ChannelID = channelID
	poll.MessageID = messageID
	return nil
}

// ChoiceCount returns how many choice rows a poll has.
func (p *Polls) ChoiceCount(pollID int64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for key := range p.choices {
		if key.pollID == pollID {
			count++
		}
	}
	return count
}
