package types

import (
	"errors"
	"time"

	"github.com/robalyx/leo/internal/database/types/enum"
)

// ErrDuplicateGrant is returned when the same giver already granted points for the same message.
var ErrDuplicateGrant = errors.New("points already granted for this message")

// LedgerEntry is one immutable change to a member's score.
// Entries are never updated or deleted once written.
type LedgerEntry struct {
	ID          int64            `bun:",pk,autoincrement" json:"id"`
	RecipientID uint64           `bun:",notnull"          json:"recipientId"`
	Delta       int              `bun:",notnull"          json:"delta"`
	Reason      string           `bun:",nullzero"         json:"reason,omitempty"`
	GiverID     uint64           `bun:",nullzero"         json:"giverId,omitempty"`
	ChannelID   uint64           `bun:",nullzero"         json:"channelId,omitempty"`
	MessageID   uint64           `bun:",nullzero"         json:"messageId,omitempty"`
	Origin      enum.EntryOrigin `bun:",notnull"          json:"origin"`
	CreatedAt   time.Time        `bun:",notnull"          json:"createdAt"`
}

// HasGiver reports whether the entry was granted by a known member.
func (e *LedgerEntry) HasGiver() bool {
	return e.GiverID != 0
}
