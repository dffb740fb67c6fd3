package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
	"github.com/korylprince/twin-client/chatbot"
	"github.com/korylprince/twin-client/twin"
	"github.com/spf13/cobra"
)

var (
	youColor     = color.New(color.FgCyan, color.Bold)
	twinColor    = color.New(color.FgGreen, color.Bold)
	sourcesColor = color.New(color.Faint)
	errorColor   = color.New(color.FgRed)
)

func main() {
	var server string

	cmd := &cobra.Command{
		Use:          "chatclient",
		Short:        "Chat with a running twin panel from the terminal",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := eventsURL(server)
			if err != nil {
				return err
			}

			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), wsURL, nil)
			if err != nil {
				return fmt.Errorf("WebSocket connection failed: %w", err)
			}
			defer conn.Close()

			return chat(conn, os.Stdin, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "panel server URL (http/https)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//eventsURL converts a panel server URL to its events WebSocket URL
func eventsURL(server string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("server URL must be http or https, got %q", server)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/api/1.0/events"
	return u.String(), nil
}

func chat(conn *websocket.Conn, in io.Reader, out io.Writer) error {
	//the server replays the thread so far, ending with done
	if err := readUntilDone(conn, out, ""); err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	for {
		youColor.Fprint(out, "\nYou: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("Error reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		if err := conn.WriteJSON(chatbot.ClientMessage{Message: input}); err != nil {
			return fmt.Errorf("Failed to send message: %w", err)
		}

		if err := readUntilDone(conn, out, input); err != nil {
			return err
		}
	}
}

//readUntilDone prints server messages until a done or error message. Turns submitted
//by other panels are printed as they arrive. When sent is set, reading continues past
//other turns until the turn for sent is done, and sent itself isn't echoed since it's
//already on screen.
func readUntilDone(conn *websocket.Conn, out io.Writer, sent string) error {
	mine := sent == ""
	for {
		var msg chatbot.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("Error reading response: %w", err)
		}

		switch msg.Type {
		case chatbot.MessageTypeMessage:
			if msg.Message == nil {
				continue
			}
			if !mine && msg.Message.Role == twin.RoleUser && msg.Message.Content == sent {
				mine = true
				continue
			}
			printMessage(out, msg.Message)
		case chatbot.MessageTypeStatus:
			p := twin.DescribeStatus(msg.Status)
			fmt.Fprintf(out, "%s · %s\n", p.Badge(), p.MeetingsLine())
		case chatbot.MessageTypePending:
			sourcesColor.Fprintln(out, "Thinking…")
		case chatbot.MessageTypeError:
			errorColor.Fprintf(out, "Error: %s\n", msg.Error)
			return nil
		case chatbot.MessageTypeDone:
			if mine {
				return nil
			}
		}
	}
}

func printMessage(out io.Writer, m *twin.Message) {
	if m.Role == twin.RoleUser {
		youColor.Fprint(out, "You: ")
	} else {
		twinColor.Fprint(out, "Twin: ")
	}
	fmt.Fprintln(out, m.Content)

	if len(m.Sources) > 0 {
		sourcesColor.Fprintf(out, "  Sources: %s\n", strings.Join(m.Sources, ", "))
	}
}
