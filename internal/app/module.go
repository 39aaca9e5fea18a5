package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/legoset/internal/auth"
	"github.com/elskow/legoset/internal/catalog"
	"github.com/elskow/legoset/internal/config"
	"github.com/elskow/legoset/internal/database"
	"github.com/elskow/legoset/internal/migration"
	"github.com/elskow/legoset/internal/server"
	"github.com/elskow/legoset/internal/web"
)

// Module combines all application modules
func Module() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(server.LoadConfig),

		// Logger
		fx.Provide(newLogger),

		// Stores and schema
		database.Module(),
		migration.Module(),

		// Domain modules
		auth.NewModule(),
		catalog.NewModule(),

		// Views
		fx.Provide(
			web.NewRenderer,
			web.NewPages,
		),

		// Server
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	return server.NewLogger(cfg.Env)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	shutdowner fx.Shutdowner,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			err := srv.Stop(ctx)
			_ = log.Sync()
			return err
		},
	})
}
