package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

// maxListItems caps how many rows a list embed shows
const maxListItems = 15

// Component custom IDs
const (
	ButtonStopSession  = "focus_stop"
	ButtonWriteJournal = "journal_write"
	ButtonSkipJournal  = "journal_skip"
	ModalJournal       = "journal_modal"
	InputThoughts      = "journal_thoughts"
)

// renderSessionStatus renders the live status message for a running session
func renderSessionStatus(nickname string, status *appstate.SessionStatus, message string) *discordgo.MessageEmbed {
	if status == nil || !status.Active {
		return &discordgo.MessageEmbed{
			Title:       "No session running",
			Description: "Use `/focus start` to unplug.",
			Color:       colorCalm,
		}
	}

	mode := "Relaxed"
	if status.Session.Strict {
		mode = "Strict"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Elapsed",
			Value:  messaging.FormatDuration(status.Elapsed),
			Inline: true,
		},
		{
			Name:   "Mode",
			Value:  mode,
			Inline: true,
		},
	}

	if status.Session.ChallengeID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Challenge",
			Value:  fmt.Sprintf("`%s`", status.Session.ChallengeID),
			Inline: true,
		})
	}

	color := colorCalm
	if status.Interrupted {
		color = colorWarning
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Interrupted",
			Value: "Come back before it counts as a failure.",
		})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s is unplugged", nickname),
		Description: message,
		Color:       color,
		Fields:      fields,
		Timestamp:   status.Session.StartTime.Format(time.RFC3339),
	}
}

// renderSessionResult renders a stopped or failed session
func renderSessionResult(nickname string, out *appstate.StopSessionOutput, result *messaging.GetSessionResultMessageOutput) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s plugged back in", nickname)
	description := ""
	if result != nil {
		title = result.Title
		description = result.Message
	}

	color := colorSuccess
	if out.Failed {
		color = colorError
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Duration",
			Value:  messaging.FormatDuration(out.Duration),
			Inline: true,
		},
		{
			Name:   "Points",
			Value:  fmt.Sprintf("+%d", out.PointsEarned),
			Inline: true,
		},
	}

	if !out.Failed {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Streak",
			Value:  fmt.Sprintf("%d day(s) this week", out.Streak),
			Inline: true,
		})
	}

	if out.Challenge != nil && out.Challenge.Found {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Challenge complete",
			Value: fmt.Sprintf("%s (+%d bonus)", out.Challenge.Challenge.Title, out.Challenge.Bonus),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
	}
}

// renderCompletion renders a challenge completion
func renderCompletion(out *appstate.CompleteChallengeOutput, msg *messaging.GetChallengeCompletedMessageOutput) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Challenge complete",
		Color: colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Challenge",
				Value:  out.Challenge.Title,
				Inline: true,
			},
			{
				Name:   "Bonus",
				Value:  fmt.Sprintf("+%d", out.Bonus),
				Inline: true,
			},
		},
	}

	if msg != nil {
		embed.Title = msg.Title
		embed.Description = msg.Message
	}

	if out.Public != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Completed by",
			Value:  fmt.Sprintf("%d user(s)", out.Public.UsersCompletedCount),
			Inline: true,
		})
	}

	return embed
}

// renderStats renders the stats snapshot
func renderStats(out *appstate.StatsOutput, streakMessage string) *discordgo.MessageEmbed {
	goal := fmt.Sprintf("%d / %d min", out.Goal.TodayMinutes, out.Goal.GoalMinutes)
	if out.Goal.Reached {
		goal += " ✅"
	}

	return &discordgo.MessageEmbed{
		Title:       "Your stats",
		Description: streakMessage,
		Color:       colorCalm,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Weekly streak",
				Value:  fmt.Sprintf("%d", out.Stats.DailyStreak),
				Inline: true,
			},
			{
				Name:   "Points",
				Value:  fmt.Sprintf("%d", out.Stats.TotalPoints),
				Inline: true,
			},
			{
				Name:   "Time unplugged",
				Value:  messaging.FormatDuration(time.Duration(out.Stats.TotalRawTime * float64(time.Second))),
				Inline: true,
			},
			{
				Name:  "Today",
				Value: goal,
			},
		},
	}
}

// renderLeaderboard renders the ranked board and the caller's standing
func renderLeaderboard(out *appstate.LeaderboardOutput) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, entry := range out.Entries {
		medal := ""
		switch entry.Rank {
		case 1:
			medal = "🥇 "
		case 2:
			medal = "🥈 "
		case 3:
			medal = "🥉 "
		}
		sb.WriteString(fmt.Sprintf("%s**%d.** %s: %d pts (%s)\n",
			medal, entry.Rank, entry.Nickname, entry.TotalPoints,
			messaging.FormatDuration(time.Duration(entry.TotalRawTime*float64(time.Second)))))
	}

	if sb.Len() == 0 {
		sb.WriteString("Nobody has unplugged yet.")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Leaderboard",
		Description: sb.String(),
		Color:       colorCalm,
	}

	if out.Self != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("You are #%d with %d points", out.Self.Rank, out.Self.TotalPoints),
		}
	}

	return embed
}

// renderChallengeList renders personal or public challenges
func renderChallengeList(title string, challenges []*models.Challenge) *discordgo.MessageEmbed {
	var sb strings.Builder
	for i, c := range challenges {
		if i == maxListItems {
			sb.WriteString(fmt.Sprintf("…and %d more", len(challenges)-maxListItems))
			break
		}

		check := "⬜"
		if c.IsCompleted {
			check = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s **%s** (%d min) `%s`", check, c.Title, c.DurationMinutes, c.ID))
		if c.IsPublic {
			sb.WriteString(fmt.Sprintf(" · 🌍 %d", c.UsersCompletedCount))
		}
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		sb.WriteString("No challenges yet.")
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: sb.String(),
		Color:       colorCalm,
	}
}

// renderChallenge renders a single challenge opened by ID
func renderChallenge(c *models.Challenge, personal bool) *discordgo.MessageEmbed {
	source := "Public"
	if personal {
		source = "Yours"
	}

	status := "Open"
	if c.IsCompleted {
		status = "Completed"
	}

	return &discordgo.MessageEmbed{
		Title:       c.Title,
		Description: fmt.Sprintf("Start it with `/focus start challenge:%s`", c.ID),
		Color:       colorCalm,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Duration",
				Value:  fmt.Sprintf("%d min", c.DurationMinutes),
				Inline: true,
			},
			{
				Name:   "Source",
				Value:  source,
				Inline: true,
			},
			{
				Name:   "Status",
				Value:  status,
				Inline: true,
			},
			{
				Name:   "Completed by",
				Value:  fmt.Sprintf("%d user(s)", c.UsersCompletedCount),
				Inline: true,
			},
		},
	}
}

// renderJournalPrompt asks for a reflection on the staged session
func renderJournalPrompt(pending appstate.PendingJournal) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "How did it go?",
		Description: fmt.Sprintf("You were unplugged for %s. Write down a few thoughts or skip.", messaging.FormatDuration(pending.Duration)),
		Color:       colorCalm,
	}
}

// renderJournal renders the newest journal entries
func renderJournal(entries []*models.JournalEntry, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Journal",
		Color: colorCalm,
	}

	for i, entry := range entries {
		if i == maxListItems {
			break
		}

		thoughts := entry.Thoughts
		if thoughts == "" {
			thoughts = "_no thoughts recorded_"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s · %s", entry.Date.In(loc).Format("Mon Jan 2 15:04"),
				messaging.FormatDuration(time.Duration(entry.Duration*float64(time.Second)))),
			Value: thoughts,
		})
	}

	if len(embed.Fields) == 0 {
		embed.Description = "No entries yet."
	}

	return embed
}

// renderError renders an error embed
func renderError(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}
}

// stopButton ends the owner's session; other users are turned away
func stopButton(ownerID string) discordgo.MessageComponent {
	return discordgo.Button{
		Label:    "Plug back in",
		Style:    discordgo.DangerButton,
		CustomID: ButtonStopSession + ":" + ownerID,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🔌",
		},
	}
}

func journalButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Write",
			Style:    discordgo.PrimaryButton,
			CustomID: ButtonWriteJournal,
			Emoji: &discordgo.ComponentEmoji{
				Name: "📝",
			},
		},
		discordgo.Button{
			Label:    "Skip",
			Style:    discordgo.SecondaryButton,
			CustomID: ButtonSkipJournal,
		},
	}
}

// journalModal collects the reflection text
func journalModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: ModalJournal,
		Title:    "Journal",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    InputThoughts,
						Label:       "Thoughts",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "What did you notice while unplugged?",
						Required:    false,
						MaxLength:   2000,
					},
				},
			},
		},
	}
}
