package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DiscordGophers/dr-folio/blog"
	"github.com/DiscordGophers/dr-folio/foundation"
)

var (
	logger *zap.Logger

	configPath string
	verbose    bool
	update     bool
)

var rootCmd = &cobra.Command{
	Use:          "folio",
	Short:        "Portfolio content tools and chat bot",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Discord bot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	botCmd.Flags().BoolVar(&update, "update", false, "update all commands, regardless of if they are present or not")

	rootCmd.AddCommand(botCmd, parseCmd, scrapeCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runBot(ctx context.Context) error {
	cfg, err := config(configPath)
	if err != nil {
		return err
	}
	token := cfg.token()
	if token == "" {
		return errors.New("no token provided")
	}

	store, err := blog.LoadDefault()
	if err != nil {
		return errors.Wrap(err, "could not load articles")
	}

	s := state.New("Bot " + token)
	b := &botState{
		cfg:     cfg,
		state:   s,
		store:   store,
		flags:   foundation.NewFlags(withDefaults(cfg.Foundation.Features)),
		tracker: foundation.NewTracker(logger),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logger.Named("bot"),
	}

	s.AddHandler(b.OnCommand)
	s.AddIntents(gateway.IntentGuilds)

	if err := s.Open(ctx); err != nil {
		return errors.Wrap(err, "failed to open")
	}
	defer s.Close()

	b.log.Info("Gateway connection established")
	me, err := s.Me()
	if err != nil {
		return errors.Wrap(err, "could not get me")
	}
	b.appID = discord.AppID(me.ID)

	b.log.Info("Logged in", zap.String("tag", me.Tag()))

	if err := loadCommands(s, b.appID, b.log); err != nil {
		return errors.Wrap(err, "could not load commands")
	}

	if cfg.Sitemap != "" {
		go b.updatePages(ctx)
	}

	<-ctx.Done()
	b.log.Info("Shutting down")
	return nil
}
