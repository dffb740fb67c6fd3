package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/korylprince/twin-client/chatbot"
	"github.com/korylprince/twin-client/tui"
	"github.com/korylprince/twin-client/twin"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the owner's current availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := newLogger(a.config, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			client := chatbot.NewClient(a.config.BackendURL, nil)

			if check {
				if err := client.Health(ctx); err != nil {
					color.New(color.FgRed).Fprintln(out, "Backend unhealthy")
					return err
				}
				color.New(color.FgGreen).Fprintln(out, "Backend healthy")
			}

			poller := chatbot.NewStatusPoller(client, log)
			if err := poller.Fetch(ctx); err != nil {
				fmt.Fprintln(out, twin.DefaultEmoji+" Status unavailable")
				return err
			}

			p := twin.DescribeStatus(poller.Current())
			printPanel(out, p)

			if p.Emoji == twin.DefaultEmoji {
				connected, err := client.CalendarConnected(ctx)
				if err != nil {
					log.WithError(err).Debug("calendar status unavailable")
				} else if !connected {
					color.New(color.FgYellow).Fprintln(out, "Calendar not connected")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check backend health first")

	return cmd
}

func printPanel(w io.Writer, p twin.Panel) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintln(w, p.Badge())
	if p.Banner {
		color.New(color.FgRed, color.Bold).Fprintln(w, tui.MeetingBanner)
	}

	fmt.Fprintf(w, "Energy:       %s\n", p.Energy)
	fmt.Fprintf(w, "Best contact: %s\n", p.ContactMethod)
	fmt.Fprintf(w, "Wait:         %s\n", p.Wait)
	fmt.Fprintf(w, "Meetings:     %s (%s)\n", p.MeetingsLine(), p.TotalLine())
	if p.Summary != "" {
		faint.Fprintln(w, p.Summary)
	}
}
