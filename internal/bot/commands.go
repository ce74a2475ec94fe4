package bot

import (
	"strconv"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/leo/internal/bot/constants"
)

// commands returns the slash commands registered for the guild.
func commands(pointsName string) []discord.ApplicationCommandCreate {
	minPage := 1
	maxReason := constants.MaxReasonLength
	maxLabel := constants.MaxOptionLabelLength

	pollOptions := []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        constants.QuestionOption,
			Description: "The question to ask",
			Required:    true,
		},
	}
	for i := 1; i <= constants.MaxPollOptions; i++ {
		pollOptions = append(pollOptions, discord.ApplicationCommandOptionString{
			Name:        constants.OptionPrefix + strconv.Itoa(i),
			Description: "Option " + strconv.Itoa(i),
			Required:    i <= 2,
			MaxLength:   &maxLabel,
		})
	}

	pollID := discord.ApplicationCommandOptionInt{
		Name:        constants.PollOption,
		Description: "The poll number",
		Required:    true,
		MinValue:    &minPage,
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        constants.RepCommandName,
			Description: "Give and check " + pointsName,
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionSubCommand{
					Name:        constants.GiveSubcommand,
					Description: "Give " + pointsName + " to a member",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionUser{
							Name:        constants.UserOption,
							Description: "Who receives the " + pointsName,
							Required:    true,
						},
						discord.ApplicationCommandOptionInt{
							Name:        constants.AmountOption,
							Description: "How many " + pointsName + " to give",
						},
						discord.ApplicationCommandOptionString{
							Name:        constants.ReasonOption,
							Description: "Why they deserve it",
							MaxLength:   &maxReason,
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        constants.CheckSubcommand,
					Description: "Show a member's " + pointsName,
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionUser{
							Name:        constants.UserOption,
							Description: "Member to check, yourself if empty",
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        constants.ScoreboardSubcommand,
					Description: "Show the scoreboard",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionInt{
							Name:        constants.PageOption,
							Description: "Page to show",
							MinValue:    &minPage,
						},
					},
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.PollCommandName,
			Description: "Run polls",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionSubCommand{
					Name:        constants.BinarySubcommand,
					Description: "Ask a yes or no question",
					Options:     pollOptions[:1],
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        constants.MultipleSubcommand,
					Description: "Ask a question with up to 20 answers",
					Options:     pollOptions,
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        constants.CloseSubcommand,
					Description: "Close one of your polls",
					Options:     []discord.ApplicationCommandOption{pollID},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        constants.ShowSubcommand,
					Description: "Post a poll again",
					Options:     []discord.ApplicationCommandOption{pollID},
				},
			},
		},
	}
}
