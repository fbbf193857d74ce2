package discord

import (
	"errors"

	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/bwmarrin/discordgo"
)

// JournalCommand handles the /journal command
type JournalCommand struct {
	BaseCommand
	bot *Bot
}

// NewJournalCommand creates a new journal command handler
func NewJournalCommand(bot *Bot) *JournalCommand {
	return &JournalCommand{
		BaseCommand: BaseCommand{
			Name:        "journal",
			Description: "Reflect on your sessions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "write",
					Description: "Journal about your last session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "thoughts",
							Description: "Leave empty to open a form",
							MaxLength:   2000,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "skip",
					Description: "Skip journaling your last session",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show your recent entries",
				},
			},
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the journal command
func (c *JournalCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	m, err := c.bot.manager(i)
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	sub := data.Options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "write":
		opt, ok := opts["thoughts"]
		if !ok {
			if _, pending := m.PendingJournal(); !pending {
				return c.bot.fail(s, i, appstate.ErrNoPendingJournal)
			}
			return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseModal,
				Data: journalModal(),
			})
		}
		return c.bot.saveJournal(s, i, m, opt.StringValue())
	case "skip":
		if !m.DiscardJournal() {
			return c.bot.fail(s, i, appstate.ErrNoPendingJournal)
		}
		return RespondWithEphemeralMessage(s, i, "Skipped. See you next time.")
	case "list":
		return RespondWithEphemeralEmbed(s, i, renderJournal(m.Journal(), c.bot.location))
	}

	return errors.New("unknown subcommand")
}
