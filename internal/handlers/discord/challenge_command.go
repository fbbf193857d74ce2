package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/challenge"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

// ChallengeCommand handles the /challenge command
type ChallengeCommand struct {
	BaseCommand
	bot *Bot
}

// NewChallengeCommand creates a new challenge command handler
func NewChallengeCommand(bot *Bot) *ChallengeCommand {
	minDuration := 1.0

	idOption := func(description string) []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "id",
				Description: description,
				Required:    true,
			},
		}
	}

	return &ChallengeCommand{
		BaseCommand: BaseCommand{
			Name:        "challenge",
			Description: "Personal and community challenges",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Create a personal challenge",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "What you are committing to",
							Required:    true,
							MaxLength:   120,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "minutes",
							Description: "Target duration",
							Required:    true,
							MinValue:    &minDuration,
							MaxValue:    1440,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your challenges",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "complete",
					Description: "Mark a challenge completed",
					Options:     idOption("Challenge ID"),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "share",
					Description: "Share a challenge with everyone (premium)",
					Options:     idOption("Challenge ID"),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete one of your challenges",
					Options:     idOption("Challenge ID"),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "open",
					Description: "Open a challenge someone shared with you",
					Options:     idOption("Challenge ID from the link"),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "public",
					Description: "Browse community challenges",
				},
			},
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the challenge command
func (c *ChallengeCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
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

	id := ""
	if opt, ok := opts["id"]; ok {
		id = opt.StringValue()
	}

	switch sub.Name {
	case "add":
		return c.handleAdd(s, i, m, opts["title"].StringValue(), int(opts["minutes"].IntValue()))
	case "list":
		return RespondWithEphemeralEmbed(s, i, renderChallengeList("Your challenges", m.ListChallenges()))
	case "complete":
		return c.handleComplete(s, i, m, id)
	case "share":
		return c.handleShare(s, i, m, id)
	case "delete":
		return c.handleDelete(s, i, m, id)
	case "open":
		return c.handleOpen(s, i, m, id)
	case "public":
		return c.handlePublic(s, i, m)
	}

	return errors.New("unknown subcommand")
}

func (c *ChallengeCommand) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, title string, minutes int) error {
	created, err := m.AddChallenge(&challenge.AddPersonalInput{
		Title:           title,
		DurationMinutes: minutes,
	})
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	return RespondWithEphemeralEmbed(s, i, renderChallenge(created, true))
}

func (c *ChallengeCommand) handleComplete(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, id string) error {
	ctx := context.Background()

	out, err := m.CompleteChallenge(ctx, id)
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	if !out.Found {
		return c.bot.failWith(s, i, messaging.ErrorTypeNotFound)
	}

	input := &messaging.GetChallengeCompletedMessageInput{
		Title:               out.Challenge.Title,
		Bonus:               out.Bonus,
		IsPublic:            out.Challenge.IsPublic,
		UsersCompletedCount: out.Challenge.UsersCompletedCount,
	}
	if out.Public != nil {
		input.FirstCompletion = out.Public.Incremented
		input.UsersCompletedCount = out.Public.UsersCompletedCount
	}

	var msg *messaging.GetChallengeCompletedMessageOutput
	if text, err := c.bot.messaging.GetChallengeCompletedMessage(ctx, input); err == nil {
		msg = text
	}

	return RespondWithEmbed(s, i, renderCompletion(out, msg))
}

// handleShare is gated on the premium entitlement
func (c *ChallengeCommand) handleShare(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, id string) error {
	ctx := context.Background()

	premium, err := m.IsPremium(ctx)
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	if !premium {
		return c.bot.failWith(s, i, messaging.ErrorTypePremium)
	}

	out, err := m.ShareChallenge(ctx, id)
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	embed := renderChallenge(out.Challenge, true)
	embed.Title = fmt.Sprintf("Shared: %s", out.Challenge.Title)
	embed.Description = fmt.Sprintf("Anyone can join with `/challenge open id:%s`", out.Challenge.ID)
	if !out.Created {
		embed.Title = fmt.Sprintf("Already shared: %s", out.Challenge.Title)
	}

	return RespondWithEmbed(s, i, embed)
}

func (c *ChallengeCommand) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, id string) error {
	err := m.DeleteChallenge(context.Background(), id)
	switch {
	case errors.Is(err, challenge.ErrPublicCleanupFailed):
		return RespondWithEphemeralMessage(s, i, "Deleted. The shared copy could not be removed and may linger for a while.")
	case err != nil:
		return c.bot.fail(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "Deleted.")
}

func (c *ChallengeCommand) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, id string) error {
	out, err := m.OpenChallenge(context.Background(), id)
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	return RespondWithEphemeralEmbed(s, i, renderChallenge(out.Challenge, out.Personal))
}

func (c *ChallengeCommand) handlePublic(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager) error {
	challenges, err := m.PublicChallenges(context.Background(), maxListItems)
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	return RespondWithEphemeralEmbed(s, i, renderChallengeList("Community challenges", challenges))
}
