package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/legoset/internal/config"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig, logger *zap.Logger) (*Manager, error) {
					return NewManager(&config.Database, logger)
				},
			),
			func(m *Manager) *gorm.DB {
				return m.DB()
			},
			fx.Annotate(
				func(config *config.AppConfig, logger *zap.Logger) (*MongoManager, error) {
					return NewMongoManager(context.Background(), &config.Mongo, logger)
				},
			),
			func(m *MongoManager) *mongo.Database {
				return m.Database()
			},
			func(config *config.AppConfig) (*redis.Client, error) {
				return NewRedis(context.Background(), &config.Redis)
			},
		),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	manager *Manager,
	mongoManager *MongoManager,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing database connections")
			if rdb != nil {
				if err := rdb.Close(); err != nil {
					logger.Warn("failed to close redis", zap.Error(err))
				}
			}
			if err := mongoManager.Close(ctx); err != nil {
				logger.Warn("failed to disconnect mongo", zap.Error(err))
			}
			return manager.Close()
		},
	})
}
