package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/unplugged/internal/handlers/discord"
	"github.com/spf13/cobra"
)

func newBotCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			if cfg.DiscordToken == "" {
				return errors.New("DISCORD_TOKEN environment variable is required")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			bot, err := discord.New(&discord.Config{
				Token:            cfg.DiscordToken,
				ApplicationID:    cfg.ApplicationID,
				GuildID:          cfg.GuildID,
				Registry:         a.registry,
				Messaging:        a.messaging,
				RotationInterval: cfg.RotationInterval,
				Location:         cfg.Timezone,
			})
			if err != nil {
				return err
			}

			if err := bot.Start(); err != nil {
				return err
			}

			<-ctx.Done()

			if err := bot.Stop(); err != nil {
				log.Printf("Error stopping bot: %v", err)
			}

			log.Println("Bot has been shut down")
			return nil
		},
	}
}
