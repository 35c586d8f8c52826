package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ChannelFeed/internal/app"
	"ChannelFeed/internal/config"
	"ChannelFeed/internal/logging"
)

var version = "dev"

type flags struct {
	configPath string
	channel    string
	startDate  string
	feedPath   string
	logLevel   string
	dryRun     bool
}

func main() {
	// a missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	os.Exit(execute(os.Args[1:], os.Stderr))
}

// execute runs the CLI and maps any error to exit status 1 after printing it.
func execute(args []string, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "channelfeed:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "channelfeed",
		Short:         "Scrape a public Telegram channel into a JSON feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file (default $CHANNELFEED_CONFIG)")
	pf.StringVar(&f.channel, "channel", "", "public channel name (default $TELEGRAM_CHANNEL)")
	pf.StringVar(&f.startDate, "start-date", "", "skip messages before this date, YYYY-MM-DD (default $START_DATE)")
	pf.StringVar(&f.feedPath, "feed", "", "feed JSON file (default $FEED_PATH)")
	pf.StringVar(&f.logLevel, "log-level", "", "debug|info|warn|error (default $LOG_LEVEL)")
	pf.BoolVar(&f.dryRun, "dry-run", false, "run without writing the feed file")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Fetch the channel once and merge new messages into the feed",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOnce(cmd.Context(), f)
			},
		},
		&cobra.Command{
			Use:   "schedule",
			Short: "Run now and then on the configured cron expression",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runScheduled(cmd.Context(), f)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "channelfeed %s\n", version)
			},
		},
	)

	return root
}

func loadConfig(f *flags) config.Config {
	cfg := config.Load(f.configPath)
	if f.channel != "" {
		cfg.Channel.Name = f.channel
	}
	if f.startDate != "" {
		cfg.Filter.StartDate = f.startDate
	}
	if f.feedPath != "" {
		cfg.Feed.Path = f.feedPath
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	cfg.Bind()
	return cfg
}

func runOnce(ctx context.Context, f *flags) error {
	cfg := loadConfig(f)
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger, app.Options{DryRun: f.dryRun})
	if err != nil {
		logger.Error("application init failed", "error", err)
		return err
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}
	return nil
}

func runScheduled(ctx context.Context, f *flags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig(f)
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger, app.Options{DryRun: f.dryRun})
	if err != nil {
		logger.Error("application init failed", "error", err)
		return err
	}

	if err := application.Schedule(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}
