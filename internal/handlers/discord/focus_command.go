package discord

import (
	"context"
	"errors"

	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

const leaderboardSize = 10

// FocusCommand handles the /focus command
type FocusCommand struct {
	BaseCommand
	bot *Bot
}

// NewFocusCommand creates a new focus command handler
func NewFocusCommand(bot *Bot) *FocusCommand {
	minGoal := 0.0

	return &FocusCommand{
		BaseCommand: BaseCommand{
			Name:        "focus",
			Description: "Unplug and track your time away",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "challenge",
							Description: "Challenge ID to attempt (makes the session strict)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "strict",
							Description: "Fail the session if you leave",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stop",
					Description: "End your session",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "journal",
							Description: "Offer a journal prompt afterwards (default true)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show your running session",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show your streak, points and daily goal",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "goal",
					Description: "Set your daily goal",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "minutes",
							Description: "Minutes per day",
							Required:    true,
							MinValue:    &minGoal,
							MaxValue:    1440,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show the global leaderboard",
				},
			},
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the focus command
func (c *FocusCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
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
	case "start":
		return c.handleStart(s, i, m, opts)
	case "stop":
		recordJournal := true
		if opt, ok := opts["journal"]; ok {
			recordJournal = opt.BoolValue()
		}
		return c.bot.stopSession(s, i, m, recordJournal)
	case "status":
		return c.handleStatus(s, i, m)
	case "stats":
		return c.handleStats(s, i, m)
	case "goal":
		return c.handleGoal(s, i, m, int(opts["minutes"].IntValue()))
	case "leaderboard":
		return c.handleLeaderboard(s, i, m)
	}

	return errors.New("unknown subcommand")
}

func (c *FocusCommand) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	input := &appstate.StartSessionInput{}
	if opt, ok := opts["challenge"]; ok {
		input.ChallengeID = opt.StringValue()
	}
	if opt, ok := opts["strict"]; ok {
		input.Strict = opt.BoolValue()
	}

	return c.bot.startSession(s, i, m, input)
}

func (c *FocusCommand) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager) error {
	status := m.SessionStatus()
	if !status.Active {
		return RespondWithEphemeralEmbed(s, i, renderSessionStatus(m.Nickname(), status, ""))
	}

	line := ""
	if out, err := c.bot.messaging.GetMotivationalMessage(context.Background(), &messaging.GetMotivationalMessageInput{
		Elapsed: status.Elapsed,
		Strict:  status.Session.Strict,
	}); err == nil {
		line = out.Message
	}

	return RespondWithEphemeralEmbed(s, i, renderSessionStatus(m.Nickname(), status, line), stopButton(m.UserID()))
}

func (c *FocusCommand) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager) error {
	out := m.Stats()

	streak := ""
	if msg, err := c.bot.messaging.GetStreakMessage(context.Background(), &messaging.GetStreakMessageInput{
		Streak: out.Stats.DailyStreak,
	}); err == nil {
		streak = msg.Message
	}

	return RespondWithEphemeralEmbed(s, i, renderStats(out, streak))
}

func (c *FocusCommand) handleGoal(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, minutes int) error {
	if err := m.SetDailyGoal(minutes); err != nil {
		return c.bot.fail(s, i, err)
	}

	return RespondWithEphemeralEmbed(s, i, renderStats(m.Stats(), "Daily goal updated."))
}

func (c *FocusCommand) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager) error {
	out, err := m.Leaderboard(context.Background(), leaderboardSize)
	if err != nil {
		return c.bot.fail(s, i, err)
	}

	return RespondWithEmbed(s, i, renderLeaderboard(out))
}
