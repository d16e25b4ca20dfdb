package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"terminwatch/internal/bot"
	"terminwatch/internal/config"
	"terminwatch/internal/logger"
	"terminwatch/internal/notifier"
	"terminwatch/internal/scraper"
	"terminwatch/internal/state"
	"terminwatch/internal/telegram"
)

var (
	flagConfig   string
	flagState    string
	flagDryRun   bool
	flagSchedule string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terminwatch",
		Short: "Watch a TEVIS booking page for earlier appointments",
		Long: `terminwatch scrapes a municipal appointment-booking page for the
earliest available slot, compares it to the appointment you already
hold, and alerts you on Telegram when an earlier one appears.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to TOML config file (optional; env vars override it)")
	cmd.PersistentFlags().StringVar(&flagState, "state", "", "Override the state file path")

	cmd.AddCommand(newRunCmd(), newCheckCmd(), newSendCmd())
	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagState != "" {
		cfg.StateFile = flagState
	}
	return cfg, nil
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one watcher pass: answer commands, heartbeat, check, alert",
		RunE:  runWatcher,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print outbound messages instead of sending them")
	cmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron expression (e.g. '@every 5m') to keep running on; default is one pass")
	return cmd
}

func runWatcher(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	store := state.NewStore(cfg.StateFile, log)

	client, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		return err
	}

	var send notifier.Notifier = notifier.NewTelegram(client, log)
	if flagDryRun {
		send = notifier.NewDryRun()
	}

	sc := scraper.New(cfg.TargetURL, log)
	b := bot.New(cfg, store, client, send, sc, log)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if flagSchedule == "" {
		return b.Run(ctx)
	}
	return runScheduled(ctx, b, cfg, log)
}

// runScheduled keeps invoking the pass under an internal cron for
// hosts without a system scheduler. Passes never overlap.
func runScheduled(ctx context.Context, b *bot.Bot, cfg config.Config, log zerolog.Logger) error {
	sched, err := cron.ParseStandard(flagSchedule)
	if err != nil {
		return fmt.Errorf("parsing schedule %q: %w", flagSchedule, err)
	}

	// Same invariant config.Validate enforces for CHECK_INTERVAL: a gap
	// between passes wider than the heartbeat window can skip a whole
	// day's ping.
	next := sched.Next(time.Now())
	interval := sched.Next(next).Sub(next)
	window := time.Duration(cfg.HeartbeatWindowMinutes) * time.Minute
	if interval >= window {
		return fmt.Errorf("schedule interval (%s) must be shorter than the heartbeat window (%s)", interval, window)
	}

	// First pass immediately, then on the schedule.
	if err := b.Run(ctx); err != nil {
		return err
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() {
		if err := b.Run(ctx); err != nil {
			log.Error().Err(err).Msg("watcher pass failed")
		}
	}))
	c.Start()
	log.Info().Str("schedule", flagSchedule).Dur("interval", interval).Msg("watcher running on schedule")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Scrape the booking page once and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No Telegram involved: the token is not required here.
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log := logger.New(cfg.Log)
			sc := scraper.New(cfg.TargetURL, log)

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			earliest, found, err := sc.Check(ctx)
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("No slots visible right now.")
				return nil
			}

			verdict := "not earlier than your current appointment"
			if earliest.Before(cfg.CurrentAppointment) {
				verdict = "earlier than your current appointment"
			}
			fmt.Printf("Earliest: %s\nCurrent:  %s\nResult:   %s\n", earliest, cfg.CurrentAppointment, verdict)
			return nil
		},
	}
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>...",
		Short: "Send a message to the default chat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.ChatID == "" {
				return fmt.Errorf("no default chat configured (TELEGRAM_CHAT_ID)")
			}

			client, err := telegram.NewClient(cfg.BotToken)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return client.SendMessage(ctx, cfg.ChatID, strings.Join(args, " "))
		},
	}
}
