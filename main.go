package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

//app holds state shared by every command
type app struct {
	config     *Config
	backendURL string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "twin",
		Short:        "Chat with a digital twin and see when its owner is available",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				config.BackendURL = a.backendURL
			}
			if err := config.validate(); err != nil {
				return err
			}
			a.config = config
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.backendURL, "backend", "", "twin backend URL (overrides TWIN_BACKENDURL)")

	root.AddCommand(
		newServeCmd(a),
		newTUICmd(a),
		newStatusCmd(a),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
