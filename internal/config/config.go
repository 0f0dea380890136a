package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable the service needs. It is built once at
// startup and injected into the components that use it; nothing reads the
// process environment after Load returns.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// Database captures the connection parameters for a MySQL instance.
type Database struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
	Params   string `yaml:"params"`
}

// DSN renders the go-sql-driver connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.Params,
	)
}

// Auth holds token-signing settings for the authentication collaborator.
type Auth struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment-variable overrides, in that order. path may be empty.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: Server{
			Port:     "8080",
			LogLevel: "info",
		},
		Database: Database{
			User:     "eatmands",
			Password: "eatmands",
			Host:     "127.0.0.1",
			Port:     "3306",
			Name:     "eatmands",
			Params:   "charset=utf8mb4&parseTime=True&loc=Local",
		},
		Auth: Auth{
			JWTSecret: "change-me",
			TokenTTL:  8 * time.Hour,
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("EATMANDS_PORT", cfg.Server.Port)
	cfg.Server.LogLevel = getEnv("EATMANDS_LOG_LEVEL", cfg.Server.LogLevel)

	cfg.Database.User = getEnv("MYSQL_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("MYSQL_PASSWORD", cfg.Database.Password)
	cfg.Database.Host = getEnv("MYSQL_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("MYSQL_PORT", cfg.Database.Port)
	cfg.Database.Name = getEnv("MYSQL_DATABASE", cfg.Database.Name)
	cfg.Database.Params = getEnv("MYSQL_PARAMS", cfg.Database.Params)

	cfg.Auth.JWTSecret = getEnv("EATMANDS_JWT_SECRET", cfg.Auth.JWTSecret)
	if raw := os.Getenv("EATMANDS_TOKEN_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil {
			cfg.Auth.TokenTTL = ttl
		}
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
