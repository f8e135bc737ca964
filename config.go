package contentbot

import "github.com/goliatone/go-content-bot/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown       = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired           = runtimeconfig.ErrStorageDSNRequired
	ErrConversationProviderUnknown  = runtimeconfig.ErrConversationProviderUnknown
	ErrConversationRequiresDatabase = runtimeconfig.ErrConversationRequiresDatabase
	ErrConversationLimitsInvalid    = runtimeconfig.ErrConversationLimitsInvalid
	ErrPageSizeInvalid              = runtimeconfig.ErrPageSizeInvalid
	ErrOperatorIDInvalid            = runtimeconfig.ErrOperatorIDInvalid
	ErrSeedDirRequired              = runtimeconfig.ErrSeedDirRequired
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config             = runtimeconfig.Config
	StorageConfig      = runtimeconfig.StorageConfig
	CacheConfig        = runtimeconfig.CacheConfig
	ConversationConfig = runtimeconfig.ConversationConfig
	PaginationConfig   = runtimeconfig.PaginationConfig
	OperatorsConfig    = runtimeconfig.OperatorsConfig
	LoggingConfig      = runtimeconfig.LoggingConfig
	MetricsConfig      = runtimeconfig.MetricsConfig
	Features           = runtimeconfig.Features
	SeedConfig         = runtimeconfig.SeedConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path (optional) and CONTENTBOT_* environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path, runtimeconfig.DefaultEnvPrefix)
}
