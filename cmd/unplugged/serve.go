package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/unplugged/internal/handlers/rest"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the mobile client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			if port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			server, err := rest.New(&rest.Config{
				Registry:    a.registry,
				Verifier:    a.auth,
				Messaging:   a.messaging,
				Metrics:     a.metrics,
				Gatherer:    a.promRegistry,
				MetricsUser: cfg.MetricsUser,
				MetricsPass: cfg.MetricsPass,
				RateLimit:   cfg.RateLimit,
				RateBurst:   cfg.RateBurst,
				TrustProxy:  cfg.TrustProxy,
				Health:      a.health,
			})
			if err != nil {
				return err
			}

			return server.Run(ctx, net.JoinHostPort("", cfg.Port))
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")

	return cmd
}
