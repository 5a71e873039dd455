package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/honzajavorek/karolakvido/internal/calendar"
	"github.com/honzajavorek/karolakvido/internal/config"
	"github.com/honzajavorek/karolakvido/internal/fetch"
	"github.com/honzajavorek/karolakvido/internal/filter"
	"github.com/honzajavorek/karolakvido/internal/logger"
	"github.com/honzajavorek/karolakvido/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagURL      string
	flagOutput   string
	flagRegion   string
	flagTimezone string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "karolakvido",
		Short: "Export the Karol a Kvído tour calendar as an iCalendar file",
		Long: `Scrapes the Karol a Kvído event calendar from karolakvido.cz and
writes the upcoming shows as an iCalendar (.ics) subscription file,
optionally narrowed to a region.`,
		RunE:          runExport,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagURL, "url", "", "Calendar page URL (default from environment)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Output .ics file path (default from environment)")
	cmd.Flags().StringVar(&flagRegion, "region", "", "Keep only events matching this region (city, venue or title)")
	cmd.Flags().StringVar(&flagTimezone, "timezone", "", "IANA timezone for event times (default from environment)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, args []string) error {
	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagURL != "" {
		cfg.CalendarURL = flagURL
	}
	if flagOutput != "" {
		cfg.OutputFile = flagOutput
	}
	if flagTimezone != "" {
		cfg.Timezone = flagTimezone
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}

	client := fetch.NewClient(cfg.HTTP)
	sc := scraper.New(client, loc)

	events, err := sc.CollectEvents(cfg.CalendarURL)
	if err != nil {
		return err
	}

	total := len(events)
	if flagRegion != "" {
		events = filter.ByRegion(events, flagRegion)
		logger.Info("applied region filter", logger.Fields{
			"region": flagRegion,
			"before": total,
			"after":  len(events),
		})
	}

	if err := calendar.WriteFile(cfg.OutputFile, events, cfg.Timezone); err != nil {
		return err
	}

	logger.Info("calendar written", logger.Fields{
		"output": cfg.OutputFile,
		"events": len(events),
	})
	if flagVerbose {
		logger.Debug("run metrics", logger.Fields(logger.MetricsSnapshot()))
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		logger.Error("run failed", nil, err)
		return ExitError
	}
	return ExitSuccess
}
