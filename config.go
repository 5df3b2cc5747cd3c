package localesync

import "github.com/goliatone/go-locale-sync/internal/runtimeconfig"

var (
	ErrProjectIDRequired      = runtimeconfig.ErrProjectIDRequired
	ErrDatasetRequired        = runtimeconfig.ErrDatasetRequired
	ErrTokenRequired          = runtimeconfig.ErrTokenRequired
	ErrLocalesRequired        = runtimeconfig.ErrLocalesRequired
	ErrLocaleInvalid          = runtimeconfig.ErrLocaleInvalid
	ErrLocaleDuplicated       = runtimeconfig.ErrLocaleDuplicated
	ErrPriorityLocaleUnknown  = runtimeconfig.ErrPriorityLocaleUnknown
	ErrDefaultLocaleUnknown   = runtimeconfig.ErrDefaultLocaleUnknown
	ErrReportLimitInvalid     = runtimeconfig.ErrReportLimitInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrJournalDriverUnknown   = runtimeconfig.ErrJournalDriverUnknown
	ErrJournalDSNRequired     = runtimeconfig.ErrJournalDSNRequired
)

type (
	Config        = runtimeconfig.Config
	StoreConfig   = runtimeconfig.StoreConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	JournalConfig = runtimeconfig.JournalConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
