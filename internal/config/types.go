package config

import "time"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig is optional; an empty URL keeps session revocation in process.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SessionConfig struct {
	CookieName     string        `mapstructure:"cookie_name"`
	Secret         string        `mapstructure:"secret"`
	Duration       time.Duration `mapstructure:"duration"`
	ActiveDuration time.Duration `mapstructure:"active_duration"`
	Secure         bool          `mapstructure:"secure"`
}

type AuthConfig struct {
	Hasher     string `mapstructure:"hasher"`
	BcryptCost int    `mapstructure:"bcrypt_cost"`
}

type AppConfig struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Auth     AuthConfig     `mapstructure:"auth"`
}
