package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres or sqlite
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslMode"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type AuthConfig struct {
	AllowedEmailDomains []string `mapstructure:"allowedEmailDomains"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// IsRelease reports whether the server runs in gin release mode
func (c Config) IsRelease() bool {
	return c.Server.Mode == "release"
}

// DatabaseDSN returns the configured DSN or assembles a postgres URL from its parts
func (c Config) DatabaseDSN() string {
	db := c.Database
	if db.DSN != "" {
		return db.DSN
	}
	if db.Driver == "sqlite" {
		return "file:inventory.db?_foreign_keys=on"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", db.User, db.Password, db.Host, db.Port, db.Name, db.SSLMode)
}

// LoadConfig reads config.yaml from path (optional), then overrides with environment variables.
// A configs/.env file is loaded into the environment first when present.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	_ = godotenv.Load(path + "/.env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "inventory")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("cors.allowOrigins", []string{"http://localhost:5173"})
	v.SetDefault("kafka.topic", "inventory-events")
	v.SetDefault("mongo.dbName", "inventory")

	binds := map[string]string{
		"server.port":              "SERVER_PORT",
		"server.mode":              "GIN_MODE",
		"database.driver":          "DB_DRIVER",
		"database.dsn":             "DB_DSN",
		"database.host":            "DB_HOST",
		"database.port":            "DB_PORT",
		"database.user":            "DB_USER",
		"database.password":        "DB_PASSWORD",
		"database.name":            "DB_NAME",
		"database.sslMode":         "DB_SSLMODE",
		"jwt.secret":               "JWT_SECRET",
		"jwt.expiration":           "JWT_EXPIRATION",
		"cors.allowOrigins":        "CORS_ALLOW_ORIGINS",
		"auth.allowedEmailDomains": "ALLOWED_EMAIL_DOMAINS",
		"mongo.uri":                "MONGO_URI",
		"mongo.dbName":             "MONGO_DB",
		"kafka.brokers":            "KAFKA_BROKERS",
		"kafka.topic":              "KAFKA_TOPIC",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, env); err != nil {
			return cfg, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	// Comma separated env values arrive as a single element
	cfg.CORS.AllowOrigins = splitList(cfg.CORS.AllowOrigins)
	cfg.Auth.AllowedEmailDomains = splitList(cfg.Auth.AllowedEmailDomains)
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)

	if cfg.JWT.Secret == "" {
		if cfg.IsRelease() {
			return cfg, errors.New("JWT_SECRET is required in release mode")
		}
		cfg.JWT.Secret = "default_super_secret_key" // development fallback only
	}

	return cfg, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
