package interaction

import (
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Kind separates slash commands from message component callbacks.
type Kind int

const (
	KindCommand Kind = iota
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Interaction is a platform-neutral view of an incoming interaction.
type Interaction struct {
	Kind      Kind
	ID        snowflake.ID
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	User      discord.User
	RoleIDs   []snowflake.ID

	// CommandName and Options are set for commands.
	CommandName string
	Options     []Option

	// CustomID, Values and Message are set for components.
	CustomID string
	Values   []string
	Message  *discord.Message
}

// HasRole reports whether the invoking member holds any of the roles.
func (i *Interaction) HasRole(roles ...snowflake.ID) bool {
	for _, held := range i.RoleIDs {
		for _, role := range roles {
			if held == role {
				return true
			}
		}
	}
	return false
}

// Option is one node of a command's option tree.
// Subcommands and subcommand groups carry their arguments in Options.
type Option struct {
	Name    string
	Type    discord.ApplicationCommandOptionType
	Value   any
	Options []Option
}

func (o Option) isGroup() bool {
	return o.Type == discord.ApplicationCommandOptionTypeSubCommand ||
		o.Type == discord.ApplicationCommandOptionTypeSubCommandGroup
}

// FlattenOptions walks the option tree and returns the subcommand path joined by spaces
// together with the leaf argument values keyed by name.
func FlattenOptions(options []Option) (string, Options) {
	var path []string
	values := make(Options)

	for len(options) > 0 {
		next := []Option(nil)

		for _, option := range options {
			if option.isGroup() {
				path = append(path, option.Name)
				next = option.Options
				continue
			}
			values[option.Name] = option.Value
		}

		options = next
	}

	return strings.Join(path, " "), values
}

// Options holds flattened command arguments keyed by option name.
type Options map[string]any

// String returns a string argument.
func (o Options) String(name string) (string, bool) {
	value, ok := o[name].(string)
	return value, ok
}

// StringOr returns a string argument or fallback when missing or blank.
func (o Options) StringOr(name, fallback string) string {
	if value, ok := o.String(name); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

// Int returns an integer argument.
func (o Options) Int(name string) (int, bool) {
	switch value := o[name].(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	case string:
		parsed, err := strconv.Atoi(value)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// IntOr returns an integer argument or fallback when missing.
func (o Options) IntOr(name string, fallback int) int {
	if value, ok := o.Int(name); ok {
		return value
	}
	return fallback
}

// Snowflake returns a user, role or channel argument.
func (o Options) Snowflake(name string) (snowflake.ID, bool) {
	switch value := o[name].(type) {
	case snowflake.ID:
		return value, true
	case string:
		id, err := snowflake.Parse(value)
		return id, err == nil
	case uint64:
		return snowflake.ID(value), true
	default:
		return 0, false
	}
}
