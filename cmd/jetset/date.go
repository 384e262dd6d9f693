package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/jetset/internal/dates"
)

func newDateCmd() *cobra.Command {
	var ref, tz string

	cmd := &cobra.Command{
		Use:   "date <expression>",
		Short: "Resolve a natural-language date expression",
		Example: `  jetset date "next Friday" --ref 2026-02-02
  jetset date "15th March"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := dates.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("unknown timezone %q", tz)
			}

			now := time.Now().In(loc)
			if ref != "" {
				now, err = time.ParseInLocation(dates.Layout, ref, loc)
				if err != nil {
					return fmt.Errorf("invalid --ref %q: want YYYY-MM-DD", ref)
				}
			}

			res := dates.Resolve(strings.Join(args, " "), now)
			writeLine(cmd.OutOrStdout(), fmt.Sprintf("%s\t%s\t%s", res.Date, dates.Human(res.Date), res.Reason))
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&tz, "tz", "Local", "timezone for the reference date")
	return cmd
}
