package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/agenda/internal/agenda"
	"github.com/teemow/agenda/internal/calendar"
	"github.com/teemow/agenda/internal/config"
	"github.com/teemow/agenda/internal/google"
	"github.com/teemow/agenda/internal/instrumentation"
	"github.com/teemow/agenda/internal/logging"
)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configPath      string
	credentialsPath string
	tokenPath       string
	calendars       []string
	debug           bool
	logFormat       string
}

// rootCmd represents the base command for the agenda application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "agenda version %s\n" .Version}}`)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "agenda <date>",
		Short: "Prints a day's Google Calendar events as a Markdown checklist",
		Long: `agenda fetches the events of one day from the Google calendars listed in
the configuration file, merges them into a single timeline and prints it as
a Markdown checklist. Gaps between events show up as BREAK entries and the
last event is followed by an END entry.

The date is given as YYYY-MM-DD, or as "today" or "tomorrow".

  $ agenda 2026-10-15
  - [ ] 09:00 Standup (09:15)
  - [ ] 09:15 BREAK (10:00)
  - [ ] 10:00 Planning (11:00)
  - [ ] 11:00 END (EOD)`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgenda(cmd, opts, args[0])
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	flags.StringVar(&opts.credentialsPath, "credentials", google.DefaultCredentialsPath, "Path to the Google OAuth client secrets file")
	flags.StringVar(&opts.tokenPath, "token", google.DefaultTokenPath, "Path of the cached OAuth token")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.logFormat, "log-format", logging.FormatText, "Log format (text or json)")
	cmd.Flags().StringSliceVar(&opts.calendars, "calendar", nil, "Calendar id to read instead of the configured list (repeatable)")

	cmd.AddCommand(newAuthCmd(opts))
	cmd.AddCommand(newCalendarsCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runAgenda(cmd *cobra.Command, opts *rootOptions, date string) error {
	ctx := cmd.Context()

	day, err := calendar.NewDay(date, time.Now())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if errors.Is(err, config.ErrNoCalendars) {
		return fmt.Errorf("%w: add calendarIds to %s or pass --calendar; \"agenda calendars\" lists the available ids", err, opts.configPath)
	}
	if err != nil {
		return err
	}

	s, err := newSession(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	client, err := s.calendarClient(ctx)
	if err != nil {
		return err
	}

	return printAgenda(ctx, cmd.OutOrStdout(), client, cfg.CalendarIDs, day, s.logger, s.provider.Metrics())
}

// loadConfig returns the calendars given with --calendar, falling back to
// the configuration file.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if len(opts.calendars) == 0 {
		return config.Load(opts.configPath)
	}

	cfg := &config.Config{CalendarIDs: opts.calendars}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// eventSource fetches the timed events of a day.
type eventSource interface {
	FetchDay(ctx context.Context, calendarIDs []string, day calendar.Day) ([]agenda.Event, error)
}

// printAgenda fetches the events of day, builds the agenda and writes it to w.
func printAgenda(ctx context.Context, w io.Writer, src eventSource, calendarIDs []string, day calendar.Day, logger *slog.Logger, metrics *instrumentation.Metrics) error {
	ctx, span := instrumentation.StartSpan(ctx, "agenda.print",
		attribute.String(instrumentation.SpanAttrDate, day.String()))
	defer span.End()

	events, err := src.FetchDay(ctx, calendarIDs, day)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}

	agenda.Sort(events)
	entries := agenda.Build(events)
	if err := agenda.Render(w, entries); err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}

	markers := 0
	counts := make(map[agenda.Kind]int)
	for _, e := range entries {
		counts[e.Kind]++
		if e.IsMarker() {
			markers++
		}
	}
	for kind, n := range counts {
		metrics.RecordAgendaEntries(ctx, kind.String(), n)
	}
	logger.Debug("printed agenda",
		logging.Date(day.String()),
		slog.Int("events", len(entries)-markers),
		slog.Int("markers", markers))

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrEventCount, len(entries)))
	instrumentation.SetSpanSuccess(span)
	return nil
}
