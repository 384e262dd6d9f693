package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/jetset/internal/app"
	"github.com/dharmasatrya/jetset/internal/config"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Run one chat turn against the configured services",
		Long: `Send one message through the full pipeline: intent extraction, date
resolution, location lookup, flight search and reply composition.
Conversation state survives between invocations only with the redis or
sqlite store.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			reply := a.Orchestrator.HandleChat(cmd.Context(), strings.Join(args, " "), conversationID)

			out := cmd.OutOrStdout()
			writeLine(out, reply.Text)
			writeLine(out, "")
			writeLine(out, fmt.Sprintf("conversation: %s", reply.ConversationID))
			if reply.Intent != "" {
				writeLine(out, fmt.Sprintf("intent: %s", reply.Intent))
			}
			if reply.ErrorCode != "" {
				writeLine(out, fmt.Sprintf("error: %s", reply.ErrorCode))
			}
			if reply.Flights != nil {
				for _, f := range reply.Flights.Flights {
					writeLine(out, fmt.Sprintf("  %s  %-20s %s %s-%s  %s  %.0f %s",
						f.ID, f.Airline, f.FlightNumber, f.Departure.Airport, f.Arrival.Airport, f.Duration, f.Price, f.Currency))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "conversation id to continue")
	return cmd
}
