package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/korylprince/twin-client/chatbot"
	"github.com/korylprince/twin-client/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Chat with the twin in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			//logs would draw over the screen, so they're dropped unless TWIN_LOGFILE is set
			log, closeLog, err := newLogger(a.config, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			sess := chatbot.NewSession(chatbot.NewClient(a.config.BackendURL, nil), log)

			p := tea.NewProgram(
				tui.New(ctx, sess, a.config.StatusRefresh),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			_, err = p.Run()
			return err
		},
	}
}
