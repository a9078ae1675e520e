package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/woolinator/bot/woolinator"
	"github.com/woolinator/bot/woolinator/logger"
)

var (
	configPath string
	cfg        *woolinator.Config

	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "woolinator",
	Short:         "Discord reminder bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := woolinator.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Setup(os.Stdout, cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
	rootCmd.AddCommand(runCmd, initSchemaCmd, remindersCmd)
}

// Execute runs the CLI until it finishes or the process receives SIGINT or
// SIGTERM.
func Execute(v, c string) {
	version, commit = v, c

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
