package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrStorageProviderUnknown = errors.New("bot config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("bot config: storage dsn is required for relational providers")
var ErrConversationProviderUnknown = errors.New("bot config: conversation provider is invalid")

// ErrConversationRequiresDatabase keeps persisted conversations behind a relational store.
var ErrConversationRequiresDatabase = errors.New("bot config: bun conversation store requires sqlite or postgres storage")
var ErrConversationLimitsInvalid = errors.New("bot config: conversation capacity and ttl must be zero or positive")
var ErrPageSizeInvalid = errors.New("bot config: page size must be positive")
var ErrOperatorIDInvalid = errors.New("bot config: operator ids must be non-zero")
var ErrSeedDirRequired = errors.New("bot config: seed directory is required when seeding is enabled")
var ErrLoggingProviderRequired = errors.New("bot config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("bot config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("bot config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("bot config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the bot module.
type Config struct {
	Storage      StorageConfig      `mapstructure:"storage"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Pagination   PaginationConfig   `mapstructure:"pagination"`
	Operators    OperatorsConfig    `mapstructure:"operators"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Features     Features           `mapstructure:"features"`
	Seed         SeedConfig         `mapstructure:"seed"`
}

// StorageConfig selects where records live: memory, sqlite or postgres.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
}

// CacheConfig captures cache behaviour toggles for relational record reads.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// ConversationConfig selects the store that keeps in-progress flows.
type ConversationConfig struct {
	Provider string        `mapstructure:"provider"`
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// PaginationConfig sizes record pick lists.
type PaginationConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// OperatorsConfig lists privileged chat operators. Managers may only update.
type OperatorsConfig struct {
	Admins   []int64 `mapstructure:"admins"`
	Managers []int64 `mapstructure:"managers"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
	// Redact lists keys whose values are masked in log output. Unset keeps
	// the defaults, an empty list disables masking.
	Redact []string `mapstructure:"redact"`
}

// MetricsConfig names the Prometheus namespace of flow metrics.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// Features toggles module functionality.
type Features struct {
	Logger   bool `mapstructure:"logger"`
	Metrics  bool `mapstructure:"metrics"`
	Activity bool `mapstructure:"activity"`
	Seed     bool `mapstructure:"seed"`
}

// SeedConfig points at Markdown seed files.
type SeedConfig struct {
	Dir       string `mapstructure:"dir"`
	Pattern   string `mapstructure:"pattern"`
	Recursive bool   `mapstructure:"recursive"`
	Defaults  bool   `mapstructure:"defaults"`
}

// DefaultConfig returns an in-memory setup suitable for local sessions.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Conversation: ConversationConfig{
			Provider: "memory",
			Capacity: 1024,
			TTL:      24 * time.Hour,
		},
		Pagination: PaginationConfig{
			PageSize: 5,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Metrics: MetricsConfig{
			Namespace: "contentbot",
		},
		Seed: SeedConfig{
			Pattern:  "*.md",
			Defaults: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	storage := normalizeProvider(cfg.Storage.Provider)
	switch storage {
	case "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, storage)
		}
	default:
		return fmt.Errorf("%w: %q", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	switch normalizeProvider(cfg.Conversation.Provider) {
	case "memory":
	case "bun":
		if storage == "memory" {
			return ErrConversationRequiresDatabase
		}
	default:
		return fmt.Errorf("%w: %q", ErrConversationProviderUnknown, cfg.Conversation.Provider)
	}
	if cfg.Conversation.Capacity < 0 || cfg.Conversation.TTL < 0 {
		return ErrConversationLimitsInvalid
	}

	if cfg.Pagination.PageSize <= 0 {
		return ErrPageSizeInvalid
	}

	for _, ids := range [][]int64{cfg.Operators.Admins, cfg.Operators.Managers} {
		for _, id := range ids {
			if id == 0 {
				return ErrOperatorIDInvalid
			}
		}
	}

	if cfg.Features.Seed && strings.TrimSpace(cfg.Seed.Dir) == "" && !cfg.Seed.Defaults {
		return ErrSeedDirRequired
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
