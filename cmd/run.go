package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/spf13/cobra"
	"github.com/woolinator/bot/internal/domain/reminders"
	"github.com/woolinator/bot/internal/gateways/database/repositories"
	"github.com/woolinator/bot/internal/gateways/platform"
	"github.com/woolinator/bot/woolinator"
	"github.com/woolinator/bot/woolinator/commands"
	"github.com/woolinator/bot/woolinator/config"
	"github.com/woolinator/bot/woolinator/database"
	"github.com/woolinator/bot/woolinator/logger"
	"golang.org/x/sync/errgroup"
)

var shouldSyncCommands bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().BoolVar(&shouldSyncCommands, "sync-commands", false, "Whether to sync commands to discord")
}

func run(ctx context.Context) error {
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	logger.LogSystem("Starting Woolinator",
		slog.String("version", version),
		slog.String("commit", commit))

	settings, err := cfg.Reminders.Settings()
	if err != nil {
		return err
	}

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("database connection failed after %s: %w", time.Since(dbStartTime), err)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	b := woolinator.New(*cfg, version, commit)
	b.DB = db

	h := handler.New()
	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}

	gw, err := platform.New(b.Client, cfg.Reminders.UserCacheSize)
	if err != nil {
		return err
	}

	repo := repositories.NewReminderRepository(db.BunDB())
	b.Scheduler = reminders.NewScheduler(repo, reminders.NewDelivery(gw), settings)
	b.Reminders = reminders.NewService(repo, b.Scheduler, settings)

	h.Command("/version", commands.VersionHandler(b))
	commands.RegisterReminders(h, reminders.NewCommands(b.Reminders, b.Paginator))

	if shouldSyncCommands || cfg.Bot.SyncCommands {
		logger.LogSystem("Syncing commands",
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			logger.LogError("Failed to sync commands", err)
		}
	}

	if err = b.Scheduler.Start(ctx); err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(ctx, config.GatewayOpenTimeout)
	defer cancel()
	if err = b.Client.OpenGateway(openCtx); err != nil {
		_ = b.Scheduler.Stop(context.Background())
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	<-ctx.Done()
	logger.LogSystem("Shutting down bot...")

	return shutdown(b)
}

func shutdown(b *woolinator.Bot) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Scheduler.Stop(gctx)
	})
	g.Go(func() error {
		b.Client.Close(gctx)
		return nil
	})
	return g.Wait()
}
