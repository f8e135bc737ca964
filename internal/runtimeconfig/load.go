package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEnvPrefix prefixes environment overrides, e.g. CONTENTBOT_STORAGE_DSN.
const DefaultEnvPrefix = "CONTENTBOT"

// Load reads an optional YAML or JSON file, applies environment overrides and
// validates the result. An empty path loads defaults plus environment only.
func Load(path, envPrefix string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if strings.TrimSpace(envPrefix) == "" {
		envPrefix = DefaultEnvPrefix
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("bot config: file not found: %s", path)
			}
			return Config{}, fmt.Errorf("bot config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("bot config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides resolve during
// Unmarshal.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("storage.provider", cfg.Storage.Provider)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.default_ttl", cfg.Cache.DefaultTTL)
	v.SetDefault("conversation.provider", cfg.Conversation.Provider)
	v.SetDefault("conversation.capacity", cfg.Conversation.Capacity)
	v.SetDefault("conversation.ttl", cfg.Conversation.TTL)
	v.SetDefault("pagination.page_size", cfg.Pagination.PageSize)
	v.SetDefault("operators.admins", cfg.Operators.Admins)
	v.SetDefault("operators.managers", cfg.Operators.Managers)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
	v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)
	v.SetDefault("features.logger", cfg.Features.Logger)
	v.SetDefault("features.metrics", cfg.Features.Metrics)
	v.SetDefault("features.activity", cfg.Features.Activity)
	v.SetDefault("features.seed", cfg.Features.Seed)
	v.SetDefault("seed.dir", cfg.Seed.Dir)
	v.SetDefault("seed.pattern", cfg.Seed.Pattern)
	v.SetDefault("seed.recursive", cfg.Seed.Recursive)
	v.SetDefault("seed.defaults", cfg.Seed.Defaults)
}
