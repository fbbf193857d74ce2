package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "unplugged",
		Short:         "Digital detox focus timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML tunables file (default $UNPLUGGED_CONFIG)")

	root.AddCommand(newBotCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newPremiumCmd(&configPath))
	return root
}
