package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/challenge"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/KirkDiggler/unplugged/internal/services/session"
	"github.com/bwmarrin/discordgo"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	registry   *appstate.Registry
	messaging  messaging.Service
	rotator    *messaging.Rotator
	location   *time.Location
	config     *Config

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	rotations map[string]*rotation
}

// rotation is a status message being refreshed for a running session
type rotation struct {
	channelID string
	messageID string
	cancel    context.CancelFunc
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Registry resolves each Discord user's state
	Registry *appstate.Registry

	// Messaging supplies user-facing text
	Messaging messaging.Service

	// RotationInterval is how often a status message gets a new line
	RotationInterval time.Duration

	// Location renders journal dates; nil uses the local zone
	Location *time.Location
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.Registry == nil {
		return nil, errors.New("registry cannot be nil")
	}

	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	rotator, err := messaging.NewRotator(&messaging.RotatorConfig{
		Service:  cfg.Messaging,
		Interval: cfg.RotationInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rotator: %w", err)
	}

	// Create a new Discord session
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())

	bot := &Bot{
		session:    s,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		registry:   cfg.Registry,
		messaging:  cfg.Messaging,
		rotator:    rotator,
		location:   location,
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		rotations:  make(map[string]*rotation),
	}

	// Register the interaction handler
	s.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	for _, cmd := range []CommandHandler{
		NewFocusCommand(b),
		NewChallengeCommand(b),
		NewJournalCommand(b),
	} {
		if err := b.RegisterCommand(cmd); err != nil {
			return fmt.Errorf("failed to register %s command: %w", cmd.GetName(), err)
		}
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop cancels status refreshes, removes commands and closes the connection
func (b *Bot) Stop() error {
	b.cancel()

	b.mu.Lock()
	for userID, r := range b.rotations {
		r.cancel()
		delete(b.rotations, userID)
	}
	b.mu.Unlock()

	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		} else {
			log.Printf("Successfully deleted command %s (ID: %s)", cmdName, cmdID)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// Guild commands update instantly, global ones can take an hour
	if b.config.GuildID != "" {
		log.Printf("Registering command %s for guild %s", cmd.GetName(), b.config.GuildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	case discordgo.InteractionModalSubmit:
		if err := b.handleModalSubmit(s, i); err != nil {
			log.Printf("Error handling modal submit: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, ButtonStopSession):
		return b.handleStopButton(s, i, strings.TrimPrefix(customID, ButtonStopSession+":"))
	case customID == ButtonWriteJournal:
		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: journalModal(),
		})
	case customID == ButtonSkipJournal:
		return b.handleSkipJournal(s, i)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
}

// handleStopButton stops the session shown on a status message
func (b *Bot) handleStopButton(s *discordgo.Session, i *discordgo.InteractionCreate, ownerID string) error {
	userID, _ := interactionUser(i)
	if ownerID != "" && ownerID != userID {
		return RespondWithEphemeralMessage(s, i, "Only the person who unplugged can end this session.")
	}

	m, err := b.manager(i)
	if err != nil {
		return b.fail(s, i, err)
	}

	return b.stopSession(s, i, m, true)
}

func (b *Bot) handleSkipJournal(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	m, err := b.manager(i)
	if err != nil {
		return b.fail(s, i, err)
	}

	m.DiscardJournal()

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Skipped. See you next time.",
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
}

// handleModalSubmit saves the journal modal
func (b *Bot) handleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()
	if data.CustomID != ModalJournal {
		return RespondWithError(s, i, fmt.Sprintf("Unknown form: %s", data.CustomID))
	}

	m, err := b.manager(i)
	if err != nil {
		return b.fail(s, i, err)
	}

	return b.saveJournal(s, i, m, modalValue(data.Components, InputThoughts))
}

// manager resolves the invoking user's state
func (b *Bot) manager(i *discordgo.InteractionCreate) (*appstate.Manager, error) {
	userID, nickname := interactionUser(i)
	if userID == "" {
		return nil, errors.New("interaction has no user")
	}

	return b.registry.Get(context.Background(), userID, nickname)
}

// startSession starts a session and posts a status message that refreshes until it ends
func (b *Bot) startSession(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, input *appstate.StartSessionInput) error {
	ctx := context.Background()

	if _, err := m.StartSession(ctx, input); err != nil {
		return b.fail(s, i, err)
	}

	status := m.SessionStatus()
	line := ""
	if out, err := b.messaging.GetMotivationalMessage(ctx, &messaging.GetMotivationalMessageInput{
		Strict: status.Session.Strict,
	}); err == nil {
		line = out.Message
	}

	userID := m.UserID()
	stop := stopButton(userID)

	if err := RespondWithEmbed(s, i, renderSessionStatus(m.Nickname(), status, line), stop); err != nil {
		return err
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Printf("Bot: failed to fetch status message for %s: %v", userID, err)
		return nil
	}

	b.trackSession(m, i.ChannelID, msg.ID, stop)
	return nil
}

// trackSession refreshes the status message with rotating lines until the session ends
func (b *Bot) trackSession(m *appstate.Manager, channelID, messageID string, stop discordgo.MessageComponent) {
	userID := m.UserID()
	ctx, cancel := context.WithCancel(b.ctx)

	b.mu.Lock()
	if prev, ok := b.rotations[userID]; ok {
		prev.cancel()
	}
	b.rotations[userID] = &rotation{
		channelID: channelID,
		messageID: messageID,
		cancel:    cancel,
	}
	strict := false
	if status := m.SessionStatus(); status.Active {
		strict = status.Session.Strict
	}
	b.mu.Unlock()

	elapsed := func() time.Duration {
		return m.SessionStatus().Elapsed
	}

	go b.rotator.Run(ctx, strict, elapsed, func(line string) {
		status := m.SessionStatus()
		if !status.Active {
			// Ended elsewhere, e.g. through the HTTP API
			if r := b.untrackSession(userID); r != nil {
				b.editStatus(r, renderSessionStatus(m.Nickname(), status, ""), nil)
			}
			return
		}

		b.mu.Lock()
		r, ok := b.rotations[userID]
		b.mu.Unlock()
		if !ok {
			return
		}

		b.editStatus(r, renderSessionStatus(m.Nickname(), status, line), []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{stop}},
		})
	})
}

// untrackSession cancels a user's status refresh and returns what was tracked
func (b *Bot) untrackSession(userID string) *rotation {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.rotations[userID]
	if !ok {
		return nil
	}
	r.cancel()
	delete(b.rotations, userID)

	return r
}

func (b *Bot) editStatus(r *rotation, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	embeds := []*discordgo.MessageEmbed{embed}
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	if _, err := b.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    r.channelID,
		ID:         r.messageID,
		Embeds:     &embeds,
		Components: &components,
	}); err != nil {
		log.Printf("Bot: failed to update status message %s: %v", r.messageID, err)
	}
}

// stopSession ends the user's session, reports the result and offers the journal
func (b *Bot) stopSession(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, recordJournal bool) error {
	ctx := context.Background()

	tracked := b.untrackSession(m.UserID())

	out, err := m.StopSession(ctx, recordJournal)
	if err != nil {
		return b.fail(s, i, err)
	}

	if !out.Stopped {
		return b.failWith(s, i, messaging.ErrorTypeNoSession)
	}

	var result *messaging.GetSessionResultMessageOutput
	if msg, err := b.messaging.GetSessionResultMessage(ctx, &messaging.GetSessionResultMessageInput{
		Duration:     out.Duration,
		PointsEarned: out.PointsEarned,
		Streak:       out.Streak,
		Failed:       out.Failed,
	}); err == nil {
		result = msg
	}
	embed := renderSessionResult(m.Nickname(), out, result)

	if i.Type == discordgo.InteractionMessageComponent {
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{embed},
				Components: []discordgo.MessageComponent{},
			},
		})
	} else {
		if tracked != nil {
			b.editStatus(tracked, embed, nil)
		}
		err = RespondWithEmbed(s, i, embed)
	}
	if err != nil {
		return err
	}

	if pending, ok := m.PendingJournal(); ok {
		_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{renderJournalPrompt(pending)},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: journalButtons()},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		})
	}

	return err
}

func (b *Bot) saveJournal(s *discordgo.Session, i *discordgo.InteractionCreate, m *appstate.Manager, thoughts string) error {
	entry, err := m.SaveJournal(thoughts)
	if err != nil {
		return b.fail(s, i, err)
	}

	return RespondWithEphemeralEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "Saved to your journal",
		Description: fmt.Sprintf("%s unplugged.", messaging.FormatDuration(time.Duration(entry.Duration*float64(time.Second)))),
		Color:       colorSuccess,
	})
}

// fail answers with a friendly ephemeral message for a service error
func (b *Bot) fail(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	errType := classify(err)
	if errType == "" {
		log.Printf("Bot: interaction %s failed: %v", i.ID, err)
		return RespondWithError(s, i, "Something went wrong. Please try again.")
	}
	return b.failWith(s, i, errType)
}

func (b *Bot) failWith(s *discordgo.Session, i *discordgo.InteractionCreate, errType string) error {
	return RespondWithError(s, i, b.errorMessage(errType))
}

func (b *Bot) errorMessage(errType string) string {
	out, err := b.messaging.GetErrorMessage(context.Background(), &messaging.GetErrorMessageInput{
		ErrorType: errType,
	})
	if err != nil || out == nil {
		return "Something went wrong. Please try again."
	}
	return out.Message
}

// classify maps a service error to a messaging error type; empty means unexpected
func classify(err error) string {
	switch {
	case errors.Is(err, session.ErrSessionActive):
		return messaging.ErrorTypeSessionActive
	case errors.Is(err, challenge.ErrChallengeNotFound):
		return messaging.ErrorTypeNotFound
	case errors.Is(err, challenge.ErrInvalidTitle),
		errors.Is(err, challenge.ErrInvalidDuration),
		errors.Is(err, appstate.ErrInvalidDailyGoal):
		return messaging.ErrorTypeInvalidInput
	case errors.Is(err, appstate.ErrNoPendingJournal):
		return messaging.ErrorTypeNoSession
	}
	return ""
}

// modalValue finds a text input's value among submitted modal rows
func modalValue(components []discordgo.MessageComponent, customID string) string {
	for _, c := range components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}
