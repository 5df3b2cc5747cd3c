package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	localesync "github.com/goliatone/go-locale-sync"
	"github.com/goliatone/go-locale-sync/internal/runtimeconfig"
)

// Options captures the sources LoadConfig reads, in increasing precedence:
// defaults, config file, .env files, process environment, overrides.
type Options struct {
	ConfigFile string
	EnvFiles   []string
	Overrides  Overrides
}

// Overrides carries values set explicitly on the command line. Nil and empty
// values leave the loaded configuration untouched.
type Overrides struct {
	DryRun                    *bool
	Locales                   []string
	PriorityLocales           []string
	IncludeUnreferencedGroups *bool
	LogLevel                  string
	JournalDSN                string
}

// envBindings maps configuration keys to the environment variables the
// reconciler has always read.
var envBindings = map[string][]string{
	"store.project_id":            {"SANITY_PROJECT_ID"},
	"store.dataset":               {"SANITY_DATASET"},
	"store.token":                 {"SANITY_TOKEN", "SANITY_API_TOKEN"},
	"store.api_version":           {"SANITY_API_VERSION"},
	"store.api_host":              {"SANITY_API_HOST"},
	"store.timeout":               {"SANITY_TIMEOUT"},
	"locales":                     {"SANITY_ACTIVE_LOCALES"},
	"default_locale":              {"LOCALESYNC_DEFAULT_LOCALE"},
	"priority_locales":            {"LOCALESYNC_PRIORITY_LOCALES"},
	"dry_run":                     {"DRY_RUN"},
	"include_unreferenced_groups": {"INCLUDE_EXISTING_TRUSTED_BY_GROUPS"},
	"missing_groups_report_limit": {"PRINT_MISSING_GROUPS_LIMIT"},
	"logging.provider":            {"LOCALESYNC_LOG_PROVIDER"},
	"logging.level":               {"LOG_LEVEL"},
	"logging.format":              {"LOG_FORMAT"},
	"journal.enabled":             {"LOCALESYNC_JOURNAL"},
	"journal.driver":              {"LOCALESYNC_JOURNAL_DRIVER"},
	"journal.dsn":                 {"LOCALESYNC_JOURNAL_DSN"},
	"journal.cache_ttl":           {"LOCALESYNC_JOURNAL_CACHE_TTL"},
}

// LoadConfig assembles a runtime configuration. Missing .env files are ignored;
// a missing explicit config file is an error.
func LoadConfig(opts Options) (localesync.Config, error) {
	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return localesync.Config{}, err
	}

	v := viper.New()
	setDefaults(v, localesync.DefaultConfig())
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return localesync.Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path := strings.TrimSpace(opts.ConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return localesync.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := localesync.Config{
		Store: localesync.StoreConfig{
			ProjectID:  v.GetString("store.project_id"),
			Dataset:    v.GetString("store.dataset"),
			Token:      v.GetString("store.token"),
			APIVersion: v.GetString("store.api_version"),
			APIHost:    v.GetString("store.api_host"),
			Timeout:    v.GetDuration("store.timeout"),
		},
		Locales:                   localeList(v.Get("locales")),
		DefaultLocale:             v.GetString("default_locale"),
		PriorityLocales:           localeList(v.Get("priority_locales")),
		DryRun:                    v.GetBool("dry_run"),
		IncludeUnreferencedGroups: v.GetBool("include_unreferenced_groups"),
		MissingGroupsReportLimit:  v.GetInt("missing_groups_report_limit"),
		Logging: localesync.LoggingConfig{
			Provider:  v.GetString("logging.provider"),
			Level:     v.GetString("logging.level"),
			Format:    v.GetString("logging.format"),
			AddSource: v.GetBool("logging.add_source"),
			Focus:     v.GetStringSlice("logging.focus"),
		},
		Journal: localesync.JournalConfig{
			Enabled:  v.GetBool("journal.enabled"),
			Driver:   v.GetString("journal.driver"),
			DSN:      v.GetString("journal.dsn"),
			CacheTTL: v.GetDuration("journal.cache_ttl"),
		},
	}
	opts.Overrides.apply(&cfg)
	return cfg, nil
}

// BuildModule loads the configuration and constructs the reconciler module.
func BuildModule(opts Options, moduleOpts ...localesync.Option) (*localesync.Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	module, err := localesync.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise locale sync module: %w", err)
	}
	return module, nil
}

func (o Overrides) apply(cfg *localesync.Config) {
	if o.DryRun != nil {
		cfg.DryRun = *o.DryRun
	}
	if len(o.Locales) > 0 {
		cfg.Locales = runtimeconfig.NormalizeLocales(o.Locales)
	}
	if len(o.PriorityLocales) > 0 {
		cfg.PriorityLocales = runtimeconfig.NormalizeLocales(o.PriorityLocales)
	}
	if o.IncludeUnreferencedGroups != nil {
		cfg.IncludeUnreferencedGroups = *o.IncludeUnreferencedGroups
	}
	if level := strings.TrimSpace(o.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if dsn := strings.TrimSpace(o.JournalDSN); dsn != "" {
		cfg.Journal.Enabled = true
		cfg.Journal.DSN = dsn
	}
}

func setDefaults(v *viper.Viper, def localesync.Config) {
	v.SetDefault("store.dataset", def.Store.Dataset)
	v.SetDefault("store.api_version", def.Store.APIVersion)
	v.SetDefault("store.timeout", def.Store.Timeout)
	v.SetDefault("locales", def.Locales)
	v.SetDefault("default_locale", def.DefaultLocale)
	v.SetDefault("missing_groups_report_limit", def.MissingGroupsReportLimit)
	v.SetDefault("logging.provider", def.Logging.Provider)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("journal.driver", def.Journal.Driver)
	v.SetDefault("journal.cache_ttl", time.Duration(0))
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		// godotenv never overrides a set variable, so .env.local wins over .env.
		files = []string{".env.local", ".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// localeList accepts both a YAML list and a comma separated string.
func localeList(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return runtimeconfig.SplitLocales(typed)
	case []string:
		return runtimeconfig.NormalizeLocales(typed)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, fmt.Sprint(item))
		}
		return runtimeconfig.NormalizeLocales(out)
	default:
		return runtimeconfig.SplitLocales(fmt.Sprint(typed))
	}
}
