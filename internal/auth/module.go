package auth

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/legoset/internal/config"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(db *mongo.Database) (Repository, error) {
					return NewRepository(context.Background(), db)
				},
			),
			fx.Annotate(
				func(config *config.AppConfig) PasswordHasher {
					return NewHasher(&config.Auth)
				},
			),
			fx.Annotate(
				func(log *zap.Logger, repo Repository, hasher PasswordHasher) *Service {
					return NewService(log, repo, hasher)
				},
			),
			fx.Annotate(
				func(rdb *redis.Client) Revoker {
					return NewRevoker(rdb)
				},
			),
			fx.Annotate(
				func(config *config.AppConfig, revoker Revoker, log *zap.Logger) (*SessionManager, error) {
					return NewSessionManager(&config.Session, revoker, log)
				},
			),
			fx.Annotate(
				func(svc *Service, sessions *SessionManager, log *zap.Logger) *Handler {
					return NewHandler(svc, sessions, log)
				},
			),
		),
	)
}
