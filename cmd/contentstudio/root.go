package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spboyer/aspire-beast-social3/internal/app"
	"github.com/spboyer/aspire-beast-social3/internal/config"
	"github.com/spboyer/aspire-beast-social3/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "contentstudio",
	Short: "content intake and social post generation",
	Example: `contentstudio serve
contentstudio migrate
contentstudio ingest text -u <user> "Some text worth sharing"
contentstudio ingest url -u <user> https://example.com/post
contentstudio generate -c <content-id> -p Twitter -p LinkedIn
contentstudio token -u <user>`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv("CONTENT_STUDIO_CONFIG", configPath)
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(tokenCmd())

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// withApp builds the application, hands it to fn and releases it afterwards.
func withApp(ctx context.Context, fn func(*app.Application) error) error {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		return err
	}
	defer application.Close()

	return fn(application)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
