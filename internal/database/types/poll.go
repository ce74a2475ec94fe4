package types

import (
	"errors"
	"time"

	"github.com/robalyx/leo/internal/database/types/enum"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrPollClosed     = errors.New("poll is closed")
	ErrOptionNotFound = errors.New("option does not belong to poll")
)

// Poll is a question posted to a channel for members to vote on.
type Poll struct {
	ID        int64         `bun:",pk,autoincrement"      json:"id"`
	CreatorID uint64        `bun:",notnull"               json:"creatorId"`
	Question  string        `bun:",notnull"               json:"question"`
	Type      enum.PollType `bun:",notnull"               json:"type"`
	ChannelID uint64        `bun:",nullzero"              json:"channelId,omitempty"`
	MessageID uint64        `bun:",nullzero"              json:"messageId,omitempty"`
	Closed    bool          `bun:",notnull,default:false" json:"closed"`
	CreatedAt time.Time     `bun:",notnull"               json:"createdAt"`
}

// HasMessage reports whether the poll currently points to a rendered message.
func (p *Poll) HasMessage() bool {
	return p.ChannelID != 0 && p.MessageID != 0
}

// PollOption is one selectable answer of a poll.
type PollOption struct {
	ID     int64  `bun:",pk,autoincrement" json:"id"`
	PollID int64  `bun:",notnull"          json:"pollId"`
	Label  string `bun:",notnull"          json:"label"`
}

// PollChoice records the option a voter currently has selected.
// A voter holds at most one choice per poll.
type PollChoice struct {
	PollID    int64     `bun:",pk"      json:"pollId"`
	VoterID   uint64    `bun:",pk"      json:"voterId"`
	OptionID  int64     `bun:",notnull" json:"optionId"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull" json:"updatedAt"`
}

// OptionTally is the current result of one option.
type OptionTally struct {
	Option *PollOption
	Voters []uint64
}

// PollTally is the full current result of a poll with options in display order.
type PollTally struct {
	Poll    *Poll
	Options []*OptionTally
	Total   int
}

// NewPollTally groups the voters of a poll by the option they currently hold.
// Options keep their given order and voters keep the order of the choices.
func NewPollTally(poll *Poll, options []*PollOption, choices []*PollChoice) *PollTally {
	tally := &PollTally{
		Poll:    poll,
		Options: make([]*OptionTally, 0, len(options)),
	}

	byID := make(map[int64]*OptionTally, len(options))
	for _, option := range options {
		result := &OptionTally{Option: option}
		tally.Options = append(tally.Options, result)
		byID[option.ID] = result
	}

	for _, choice := range choices {
		result, ok := byID[choice.OptionID]
		if !ok {
			continue
		}
		result.Voters = append(result.Voters, choice.VoterID)
		tally.Total++
	}

	return tally
}
