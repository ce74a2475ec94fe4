package enum

// PollType distinguishes yes/no polls from polls with custom options.
//
//go:generate go tool enumer -type=PollType -trimprefix=PollType -linecomment
type PollType int

const (
	// PollTypeBinary polls offer a fixed Yes and No option.
	PollTypeBinary PollType = iota // binary
	// PollTypeMultiple polls offer the options given by their creator.
	PollTypeMultiple // multiple
)
