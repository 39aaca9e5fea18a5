package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elskow/legoset/internal/migration"
	"github.com/elskow/legoset/internal/server"
)

func main() {
	if os.Getenv("APP_ENV") == "" {
		os.Setenv("APP_ENV", "development")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		migrator *migration.Migrator
		log      *zap.Logger
	)

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the catalog database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.ReadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err = server.NewLogger(cfg.Env)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			migrator, err = migration.NewMigrator(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to create migrator: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = log.Sync()
			return migrator.Close()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := migrator.Up(); err != nil {
					return err
				}
				log.Info("successfully ran migrations")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [version]",
			Short: "Roll back one migration, or down to the given version",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					version, err := strconv.ParseInt(args[0], 10, 64)
					if err != nil {
						return fmt.Errorf("invalid version %q: %w", args[0], err)
					}
					if err := migrator.DownTo(version); err != nil {
						return err
					}
					log.Info("successfully migrated down", zap.Int64("version", version))
					return nil
				}

				if err := migrator.Down(); err != nil {
					return err
				}
				log.Info("successfully rolled back migrations")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the status of every migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrator.Status()
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := migrator.Version()
				if err != nil {
					return err
				}
				latest, err := migrator.GetLatestVersion()
				if err != nil {
					return err
				}
				cmd.Printf("current migration version: %d (latest %d)\n", version, latest)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Roll back every migration and apply them again",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := migrator.Reset(); err != nil {
					return err
				}
				log.Info("successfully reset migrations")
				return nil
			},
		},
	)

	return root
}
