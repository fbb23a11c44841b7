package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/agenda/internal/calendar"
)

func newCalendarsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List the calendars you can read",
		Long: `List the calendars accessible to the authorized account as
"<id><TAB><summary>". Copy the ids into the calendarIds list of the
configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := newSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			client, err := s.calendarClient(ctx)
			if err != nil {
				return err
			}

			calendars, err := client.ListCalendars(ctx)
			if err != nil {
				return err
			}
			return writeCalendars(cmd.OutOrStdout(), calendars)
		},
	}
}

func writeCalendars(w io.Writer, calendars []calendar.CalendarInfo) error {
	for _, c := range calendars {
		line := c.ID + "\t" + c.Summary
		if c.Primary {
			line += "\t(primary)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
