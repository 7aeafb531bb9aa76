// Package config loads application configuration from file and
// environment, and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Mirror     MirrorConfig     `yaml:"mirror" mapstructure:"mirror"`
	Backfill   BackfillConfig   `yaml:"backfill" mapstructure:"backfill"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Credit     CreditConfig     `yaml:"credit" mapstructure:"credit"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend. Driver is "sqlite" or
// "postgres"; Path applies to sqlite, DatabaseURL to postgres.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings. The extract stage runs
// on Haiku; the brief stage runs on Sonnet.
type AnthropicConfig struct {
	Key              string `yaml:"key" mapstructure:"key"`
	ExtractModel     string `yaml:"extract_model" mapstructure:"extract_model"`
	BriefModel       string `yaml:"brief_model" mapstructure:"brief_model"`
	ExtractMaxTokens int64  `yaml:"extract_max_tokens" mapstructure:"extract_max_tokens"`
	BriefMaxTokens   int64  `yaml:"brief_max_tokens" mapstructure:"brief_max_tokens"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ServerConfig configures the intake HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// MirrorConfig configures the JSON file mirror written next to the
// database on every lead create/update.
type MirrorConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// BackfillConfig configures the backfill command that re-processes
// raw-only leads in bulk.
type BackfillConfig struct {
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	RPS         float64 `yaml:"rps" mapstructure:"rps"`
}

// SalesforceConfig holds Salesforce JWT auth settings for the lead push.
type SalesforceConfig struct {
	ClientID string  `yaml:"client_id" mapstructure:"client_id"`
	Username string  `yaml:"username" mapstructure:"username"`
	KeyPath  string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string  `yaml:"login_url" mapstructure:"login_url"`
	RPS      float64 `yaml:"rps" mapstructure:"rps"`
}

// CreditConfig selects the soft credit pull backend.
type CreditConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so env overrides bind.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "leads.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.extract_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.brief_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.extract_max_tokens", 2048)
	v.SetDefault("anthropic.brief_max_tokens", 1024)
	v.SetDefault("anthropic.timeout_secs", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("mirror.enabled", true)
	v.SetDefault("mirror.dir", "leads")
	v.SetDefault("backfill.concurrency", 4)
	v.SetDefault("backfill.rps", 2.0)
	v.SetDefault("salesforce.client_id", "")
	v.SetDefault("salesforce.username", "")
	v.SetDefault("salesforce.key_path", "")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rps", 5.0)
	v.SetDefault("credit.mode", "dummy")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
