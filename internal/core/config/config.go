package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/buzzline-lab/buzzline/internal/core/analytics"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Feed source selectors.
const (
	FeedSourceHTTP  = "http"
	FeedSourceKafka = "kafka"
	FeedSourceBoth  = "both"
)

// Config represents the top-level application config plus the resolved
// keyword set. Consumed at construction only; nothing here is runtime-mutable.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Feed      FeedConfig      `koanf:"feed"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Report    ReportConfig    `koanf:"report"`

	// KeywordLoading is populated by Load after parsing keyword-set files.
	KeywordLoading KeywordLoadingConfig `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

// DatabaseConfig controls the optional raw-record archive.
type DatabaseConfig struct {
	Enabled      bool   `koanf:"enabled"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type FeedConfig struct {
	Source  string   `koanf:"source"` // http | kafka | both
	Topic   string   `koanf:"topic"`
	GroupID string   `koanf:"group_id"`
	Brokers []string `koanf:"brokers"`
}

type AnalyticsConfig struct {
	Keywords        []string `koanf:"keywords"`
	KeywordsDir     string   `koanf:"keywords_dir"`
	RequireKeywords bool     `koanf:"require_keywords"`
	VolumeCapacity  int      `koanf:"volume_capacity"`
}

type ReportConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Interval string `koanf:"interval"`
}

type KeywordLoadingConfig struct {
	ConfigDir string
	Keywords  []string
}

func (c ReportConfig) EffectiveInterval() string {
	if c.Interval != "" {
		return c.Interval
	}
	return "15s"
}

// KafkaEnabled reports whether the Kafka feed should run.
func (c FeedConfig) KafkaEnabled() bool {
	return c.Source == FeedSourceKafka || c.Source == FeedSourceBoth
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if c.Database.Enabled {
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required when database.enabled is true")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	}

	switch c.Feed.Source {
	case FeedSourceHTTP, FeedSourceKafka, FeedSourceBoth:
	default:
		return fmt.Errorf("invalid feed.source %q (must be http, kafka or both)", c.Feed.Source)
	}
	if c.Feed.KafkaEnabled() {
		if strings.TrimSpace(c.Feed.Topic) == "" {
			return fmt.Errorf("feed.topic is required for the kafka feed")
		}
		if strings.TrimSpace(c.Feed.GroupID) == "" {
			return fmt.Errorf("feed.group_id is required for the kafka feed")
		}
		if len(c.Feed.Brokers) == 0 {
			return fmt.Errorf("feed.brokers is required for the kafka feed")
		}
	}

	if c.Analytics.VolumeCapacity <= 0 {
		return fmt.Errorf("analytics.volume_capacity must be > 0")
	}

	interval, err := time.ParseDuration(c.Report.EffectiveInterval())
	if err != nil {
		return fmt.Errorf("invalid report.interval %q: %w", c.Report.EffectiveInterval(), err)
	}
	if interval <= 0 {
		return fmt.Errorf("report.interval must be > 0")
	}

	return nil
}

// Load parses config from file + env, validates it, then resolves the
// keyword set from the inline list plus any keyword-set files.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                8080,
		"server.host":                "0.0.0.0",
		"server.max_body_size_mb":    1,
		"server.mode":                "release",
		"database.enabled":           false,
		"database.dsn":               "",
		"database.max_open_conns":    25,
		"database.max_idle_conns":    25,
		"database.auto_migrate":      true,
		"feed.source":                FeedSourceHTTP,
		"feed.topic":                 "buzzline.messages",
		"feed.group_id":              "buzzline-analytics",
		"feed.brokers":               []string{"localhost:9092"},
		"analytics.keywords":         []string{"Kafka", "Python", "data", "real-time", "analysis"},
		"analytics.keywords_dir":     "",
		"analytics.require_keywords": false,
		"analytics.volume_capacity":  100,
		"report.enabled":             true,
		"report.interval":            "15s",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("BUZZLINE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "BUZZLINE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	keywords := append([]string(nil), cfg.Analytics.Keywords...)
	if cfg.Analytics.KeywordsDir != "" {
		repo, err := analytics.NewFileSystemKeywordRepository(cfg.Analytics.KeywordsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load keyword sets: %w", err)
		}
		keywords = append(keywords, repo.Keywords()...)
	}
	if cfg.Analytics.RequireKeywords && len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords configured (analytics.keywords or %q)", cfg.Analytics.KeywordsDir)
	}

	cfg.KeywordLoading = KeywordLoadingConfig{
		ConfigDir: cfg.Analytics.KeywordsDir,
		Keywords:  keywords,
	}

	return &cfg, nil
}
