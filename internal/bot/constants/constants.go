package constants

const (
	// Commands.
	RepCommandName  = "rep"
	PollCommandName = "poll"

	// Reputation subcommands.
	GiveSubcommand       = "give"
	CheckSubcommand      = "check"
	ScoreboardSubcommand = "scoreboard"

	// Poll subcommands.
	BinarySubcommand   = "binary"
	MultipleSubcommand = "multiple"
	CloseSubcommand    = "close"
	ShowSubcommand     = "show"

	// Command options.
	UserOption     = "user"
	AmountOption   = "amount"
	ReasonOption   = "reason"
	PageOption     = "page"
	QuestionOption = "question"
	PollOption     = "poll"
	OptionPrefix   = "option"

	// Components.
	VoteComponentName = "vote"

	// Common.
	DefaultEmbedColor = 0xFF6400
	NoPointsYet       = "no points yet"

	// Reputation.
	DefaultGiveAmount    = 1
	ReactionGrantReason  = "Reaction +1"
	ImportGrantReason    = "Imported from YAGPDB.xyz"
	ScoreboardTitle      = "Scoreboard"
	ScoreboardContent    = "Reputation Scoreboard:"
	ScoreboardEmptyPage  = "No scores on this page."
	ScoreboardPageSize   = 10
	MaxReasonLength      = 1000
	ScoreboardNameLength = 32

	// Polls.
	MaxPollOptions       = 20
	MaxOptionLabelLength = 100
	MaxQuestionLength    = 245
	MaxFieldNameLength   = 250
	MaxVoterMentions     = 44
	BinaryYesLabel       = "Yes"
	BinaryNoLabel        = "No"
	PollSelectPrompt     = "Choose an option"
	PollClosedSuffix     = " (closed)"
	NoVotes              = "*No votes*"
)
