package enum

// EntryOrigin identifies how a ledger entry came to exist.
//
//go:generate go tool enumer -type=EntryOrigin -trimprefix=EntryOrigin
type EntryOrigin int

const (
	// EntryOriginCommand is a manual grant made with the give command.
	EntryOriginCommand EntryOrigin = iota
	// EntryOriginReaction is a grant made by reacting with the plus-one emoji.
	EntryOriginReaction
	// EntryOriginMessage is a grant detected from a thank-you message.
	EntryOriginMessage
	// EntryOriginImport is an entry carried over from a legacy reputation bot.
	EntryOriginImport
)
