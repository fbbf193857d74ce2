package main

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/unplugged/internal/repositories/entitlement"
	"github.com/spf13/cobra"
)

// newPremiumCmd manages the premium entitlement set directly in Redis
func newPremiumCmd(configPath *string) *cobra.Command {
	premium := &cobra.Command{Use: "premium", Short: "Manage premium entitlements"}

	withRepo := func(run func(ctx context.Context, repo entitlement.Repository, userID string) (string, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			client, err := connectRedis(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			repo, err := entitlement.NewRedis(&entitlement.Config{RedisClient: client})
			if err != nil {
				return err
			}

			out, err := run(cmd.Context(), repo, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
	}

	premium.AddCommand(
		&cobra.Command{
			Use:   "grant <user-id>",
			Short: "Give a user premium",
			Args:  cobra.ExactArgs(1),
			RunE: withRepo(func(ctx context.Context, repo entitlement.Repository, userID string) (string, error) {
				if err := repo.Grant(ctx, userID); err != nil {
					return "", err
				}
				return fmt.Sprintf("granted premium to %s", userID), nil
			}),
		},
		&cobra.Command{
			Use:   "revoke <user-id>",
			Short: "Remove a user's premium",
			Args:  cobra.ExactArgs(1),
			RunE: withRepo(func(ctx context.Context, repo entitlement.Repository, userID string) (string, error) {
				if err := repo.Revoke(ctx, userID); err != nil {
					return "", err
				}
				return fmt.Sprintf("revoked premium from %s", userID), nil
			}),
		},
		&cobra.Command{
			Use:   "check <user-id>",
			Short: "Show whether a user has premium",
			Args:  cobra.ExactArgs(1),
			RunE: withRepo(func(ctx context.Context, repo entitlement.Repository, userID string) (string, error) {
				ok, err := repo.IsEntitled(ctx, userID)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s premium=%t", userID, ok), nil
			}),
		},
	)

	return premium
}
