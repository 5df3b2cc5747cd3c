package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var (
	ErrProjectIDRequired      = errors.New("localesync config: store project id is required")
	ErrDatasetRequired        = errors.New("localesync config: store dataset is required")
	ErrTokenRequired          = errors.New("localesync config: store token is required for write runs")
	ErrLocalesRequired        = errors.New("localesync config: at least one locale is required")
	ErrLocaleInvalid          = errors.New("localesync config: locale code is invalid")
	ErrLocaleDuplicated       = errors.New("localesync config: locale listed more than once")
	ErrPriorityLocaleUnknown  = errors.New("localesync config: priority locale is not an active locale")
	ErrDefaultLocaleUnknown   = errors.New("localesync config: default locale is not an active locale")
	ErrReportLimitInvalid     = errors.New("localesync config: missing group report limit must be zero or positive")
	ErrLoggingProviderUnknown = errors.New("localesync config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("localesync config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("localesync config: logging format is invalid")
	ErrJournalDriverUnknown   = errors.New("localesync config: journal driver is invalid")
	ErrJournalDSNRequired     = errors.New("localesync config: journal dsn is required when the journal is enabled")
)

// DefaultAPIVersion pins the store query API revision.
const DefaultAPIVersion = "2024-05-01"

// Config is the explicit run configuration handed to the reconciler. Nothing
// in the runtime reads process state; the CLI builds this struct once.
type Config struct {
	Store StoreConfig
	// Locales are the target locales every translation group should cover.
	Locales []string
	// DefaultLocale seeds the fallback priority when PriorityLocales is empty.
	DefaultLocale string
	// PriorityLocales decides whose translationKey wins when siblings disagree
	// and which sibling is cloned when materializing a missing one.
	PriorityLocales []string
	DryRun          bool
	// IncludeUnreferencedGroups appends groups no landing references to the
	// canonical order, sorted by display name.
	IncludeUnreferencedGroups bool
	MissingGroupsReportLimit  int
	Logging                   LoggingConfig
	Journal                   JournalConfig
}

// StoreConfig holds the remote document store connection parameters.
type StoreConfig struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
	// APIHost overrides the default https://<project>.api.sanity.io host.
	APIHost string
	Timeout time.Duration
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// JournalConfig enables the persisted run journal.
type JournalConfig struct {
	Enabled bool
	Driver  string
	DSN     string
	// CacheTTL enables a read-through cache over journal queries when positive.
	CacheTTL time.Duration
}

// DefaultConfig returns the stock configuration: production dataset, en and
// lv locales, console logging at info level.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Dataset:    "production",
			APIVersion: DefaultAPIVersion,
			Timeout:    30 * time.Second,
		},
		Locales:                  []string{"en", "lv"},
		DefaultLocale:            "en",
		MissingGroupsReportLimit: 50,
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Journal: JournalConfig{
			Driver: "sqlite",
		},
	}
}

// Validate reports configuration errors for runs that write to the store.
func (cfg Config) Validate() error {
	if err := cfg.ValidateReadOnly(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Store.Token) == "" {
		return ErrTokenRequired
	}
	return nil
}

// ValidateReadOnly reports configuration errors for runs that only query the
// store, where a token is optional.
func (cfg Config) ValidateReadOnly() error {
	if strings.TrimSpace(cfg.Store.ProjectID) == "" {
		return ErrProjectIDRequired
	}
	if strings.TrimSpace(cfg.Store.Dataset) == "" {
		return ErrDatasetRequired
	}
	if err := validateLocales(cfg.Locales); err != nil {
		return err
	}
	if def := NormalizeLocale(cfg.DefaultLocale); def != "" && !slices.Contains(NormalizeLocales(cfg.Locales), def) {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleUnknown, cfg.DefaultLocale)
	}
	active := NormalizeLocales(cfg.Locales)
	for _, locale := range cfg.PriorityLocales {
		if !slices.Contains(active, NormalizeLocale(locale)) {
			return fmt.Errorf("%w: %s", ErrPriorityLocaleUnknown, locale)
		}
	}
	if cfg.MissingGroupsReportLimit < 0 {
		return ErrReportLimitInvalid
	}
	if err := cfg.Logging.validate(); err != nil {
		return err
	}
	return cfg.Journal.validate()
}

// Priority returns the locale preference order: PriorityLocales first, then
// the default locale, then the remaining active locales in configured order.
func (cfg Config) Priority() []string {
	out := make([]string, 0, len(cfg.Locales)+1)
	add := func(locale string) {
		locale = NormalizeLocale(locale)
		if locale != "" && !slices.Contains(out, locale) {
			out = append(out, locale)
		}
	}
	for _, locale := range cfg.PriorityLocales {
		add(locale)
	}
	add(cfg.DefaultLocale)
	for _, locale := range cfg.Locales {
		add(locale)
	}
	return out
}

func (l LoggingConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Provider)) {
	case "", "console", "gologger":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, l.Provider)
	}
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, l.Level)
	}
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "", "json", "console", "pretty":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, l.Format)
	}
	return nil
}

func (j JournalConfig) validate() error {
	if !j.Enabled {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(j.Driver)) {
	case "sqlite", "sqlite3", "postgres", "pg":
	default:
		return fmt.Errorf("%w: %s", ErrJournalDriverUnknown, j.Driver)
	}
	if strings.TrimSpace(j.DSN) == "" {
		return ErrJournalDSNRequired
	}
	return nil
}

func validateLocales(locales []string) error {
	normalized := NormalizeLocales(locales)
	if len(normalized) == 0 {
		return ErrLocalesRequired
	}
	seen := make(map[string]struct{}, len(normalized))
	for _, locale := range normalized {
		if _, err := language.Parse(locale); err != nil {
			return fmt.Errorf("%w: %s", ErrLocaleInvalid, locale)
		}
		if _, ok := seen[locale]; ok {
			return fmt.Errorf("%w: %s", ErrLocaleDuplicated, locale)
		}
		seen[locale] = struct{}{}
	}
	return nil
}

// NormalizeLocale trims and lower-cases a locale code.
func NormalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

// NormalizeLocales normalizes every entry and drops empty ones.
func NormalizeLocales(locales []string) []string {
	out := make([]string, 0, len(locales))
	for _, locale := range locales {
		if normalized := NormalizeLocale(locale); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// SplitLocales parses a comma separated locale list such as SANITY_ACTIVE_LOCALES.
func SplitLocales(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return NormalizeLocales(strings.Split(value, ","))
}
