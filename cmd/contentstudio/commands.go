package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spboyer/aspire-beast-social3/internal/app"
	"github.com/spboyer/aspire-beast-social3/internal/config"
	"github.com/spboyer/aspire-beast-social3/internal/infrastructure/storage"
	"github.com/spboyer/aspire-beast-social3/internal/logging"
	"github.com/spboyer/aspire-beast-social3/internal/transport/httpapi"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the calendar digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				return a.Run(cmd.Context())
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN, logger.With("component", "storage"))
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			return storage.Migrate(db)
		},
	}
}

func ingestCmd() *cobra.Command {
	var (
		userID string
		tags   []string
	)

	command := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest content from text or a URL",
	}
	command.PersistentFlags().StringVarP(&userID, "user", "u", "", "owner of the content")
	command.PersistentFlags().StringSliceVarP(&tags, "tag", "t", nil, "tags to attach")
	_ = command.MarkPersistentFlagRequired("user")

	command.AddCommand(&cobra.Command{
		Use:   "text <text>",
		Short: "Ingest pasted text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				content, err := a.Pipeline().IngestText(cmd.Context(), userID, args[0], tags)
				if err != nil {
					return err
				}
				return printJSON(content)
			})
		},
	})

	command.AddCommand(&cobra.Command{
		Use:   "url <url>",
		Short: "Fetch and ingest a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.Application) error {
				content, err := a.Pipeline().IngestURL(cmd.Context(), userID, args[0], tags)
				if err != nil {
					return err
				}
				return printJSON(content)
			})
		},
	})

	return command
}

func generateCmd() *cobra.Command {
	var (
		contentID    string
		platforms    []string
		instructions string
	)

	command := &cobra.Command{
		Use:   "generate",
		Short: "Generate platform posts for stored content",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(contentID)
			if err != nil {
				return fmt.Errorf("invalid content id %q: %w", contentID, err)
			}

			return withApp(cmd.Context(), func(a *app.Application) error {
				res, err := a.Posts().GeneratePosts(cmd.Context(), id, platforms, instructions)
				if err != nil {
					return err
				}
				for _, f := range res.Failures {
					cmd.PrintErrf("%s: %v\n", f.Platform, f.Err)
				}
				return printJSON(res.Posts)
			})
		},
	}
	command.Flags().StringVarP(&contentID, "content", "c", "", "content id")
	command.Flags().StringSliceVarP(&platforms, "platform", "p", []string{"Twitter"}, "target platforms")
	command.Flags().StringVarP(&instructions, "instructions", "i", "", "custom instructions")
	_ = command.MarkFlagRequired("content")

	return command
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	command := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET is not configured")
			}

			token, err := httpapi.GenerateToken(cfg.Auth.JWTSecret, userID, ttl)
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}
	command.Flags().StringVarP(&userID, "user", "u", "", "user id placed in the subject claim")
	command.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = command.MarkFlagRequired("user")

	return command
}

