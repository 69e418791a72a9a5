// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type WhatsAppConfig struct {
	AccessToken   string `yaml:"access_token"`
	PhoneNumberID string `yaml:"phone_number_id"`
	VerifyToken   string `yaml:"verify_token"`
	GraphBaseURL  string `yaml:"graph_base_url"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

// FlowConfig selects the dialog variant: whether a phone number is collected
// explicitly and whether the user picks a tournament by free text.
type FlowConfig struct {
	CollectPhone     bool     `yaml:"collect_phone"`
	ChooseTournament bool     `yaml:"choose_tournament"`
	AcceptTokens     []string `yaml:"accept_tokens"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // memory | redis
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // empty disables the postgres sink
}

type SinkConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type TournamentConfig struct {
	File        string `yaml:"file"`
	Name        string `yaml:"name"`        // default when the file is absent
	Description string `yaml:"description"` // default when the file is absent
}

type AdminConfig struct {
	Password  string        `yaml:"password"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type RateLimitConfig struct {
	PerUser int           `yaml:"per_user"` // messages per window, 0 disables
	Window  time.Duration `yaml:"window"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	WhatsApp   WhatsAppConfig   `yaml:"whatsapp"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Flow       FlowConfig       `yaml:"flow"`
	Store      StoreConfig      `yaml:"store"`
	Redis      RedisConfig      `yaml:"redis"`
	Database   DatabaseConfig   `yaml:"database"`
	Sink       SinkConfig       `yaml:"sink"`
	Tournament TournamentConfig `yaml:"tournament"`
	Admin      AdminConfig      `yaml:"admin"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config. Secrets may also arrive
// through the environment (useful with a .env file next to the binary).
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// env overrides for secrets
	if v := os.Getenv("WHATSAPP_ACCESS_TOKEN"); v != "" {
		cfg.WhatsApp.AccessToken = v
	}
	if v := os.Getenv("WHATSAPP_VERIFY_TOKEN"); v != "" {
		cfg.WhatsApp.VerifyToken = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.WhatsApp.GraphBaseURL == "" {
		cfg.WhatsApp.GraphBaseURL = "https://graph.facebook.com/v19.0"
	}
	if len(cfg.Flow.AcceptTokens) == 0 {
		cfg.Flow.AcceptTokens = []string{"1", "да"}
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Sink.CSVPath == "" {
		cfg.Sink.CSVPath = "registrations.csv"
	}
	if cfg.Tournament.File == "" {
		cfg.Tournament.File = "tournament.yaml"
	}
	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = 30 * time.Minute
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}

	// Minimal validation: total misconfiguration is the only fatal error.
	if cfg.WhatsApp.VerifyToken == "" {
		return nil, errors.New("whatsapp.verify_token is required")
	}
	if cfg.Store.Backend == "redis" && cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required when store.backend=redis")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}
