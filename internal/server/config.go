package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/elskow/legoset/internal/config"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// envBindings maps config keys onto the environment variables the deployment
// already provides.
var envBindings = map[string]string{
	"server.host":       "HOST",
	"server.port":       "PORT",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_DATABASE",
	"database.sslmode":  "DB_SSLMODE",
	"mongo.uri":         "MONGODB",
	"mongo.database":    "MONGODB_DATABASE",
	"redis.url":         "REDIS_URL",
	"session.secret":    "SESSION_SECRET",
	"session.secure":    "SESSION_SECURE",
	"auth.hasher":       "PASSWORD_HASHER",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("mongo.database", "legoset")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)

	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.duration", 2*time.Minute)
	v.SetDefault("session.active_duration", time.Minute)

	v.SetDefault("auth.hasher", "bcrypt")
	v.SetDefault("auth.bcrypt_cost", 10)
}

// LoadConfig reads and validates the configuration the web server needs.
func LoadConfig() (*config.AppConfig, error) {
	cfg, err := ReadConfig()
	if err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig resolves defaults, the optional config file and the environment
// without validating. Tools that only touch the catalog database use it.
func ReadConfig() (*config.AppConfig, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = EnvDevelopment
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath("./config/server")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, name := range envBindings {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", name, err)
		}
	}

	var cfg config.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Env = env

	return &cfg, nil
}

func validateConfig(cfg *config.AppConfig) error {
	if cfg.Session.Secret == "" {
		return errors.New("session secret is required (SESSION_SECRET)")
	}
	if cfg.Mongo.URI == "" {
		return errors.New("mongo uri is required (MONGODB)")
	}
	if cfg.Session.Duration <= 0 {
		return fmt.Errorf("session duration must be positive, got %s", cfg.Session.Duration)
	}
	if cfg.Session.ActiveDuration < 0 {
		return fmt.Errorf("session active duration must not be negative, got %s", cfg.Session.ActiveDuration)
	}
	switch cfg.Auth.Hasher {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("unknown password hasher %q", cfg.Auth.Hasher)
	}
	return nil
}
