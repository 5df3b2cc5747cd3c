package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	localesync "github.com/goliatone/go-locale-sync"
	"github.com/goliatone/go-locale-sync/cmd/localesync/internal/bootstrap"
	"github.com/goliatone/go-locale-sync/internal/seeds"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// errRunFailed marks a run that finished with failed writes. The summary has
// already been printed, so main only sets the exit code.
var errRunFailed = errors.New("run finished with failed writes")

// runner is the module surface the commands drive.
type runner interface {
	SyncTrustedBy(ctx context.Context) (*localesync.Result, error)
	RepairReferences(ctx context.Context) (*localesync.Result, error)
	BackfillKeys(ctx context.Context, groups []localesync.PairGroup) (*localesync.Result, error)
	SeedDictionary(ctx context.Context, entries []localesync.SeedEntry, includeTaxonomies bool) (*localesync.Result, error)
	List(ctx context.Context, docType string, locales []string) ([]interfaces.RawDocument, error)
	History(ctx context.Context, runID string, limit int) ([]*localesync.JournalEntry, error)
	Close() error
}

var _ runner = (*localesync.Module)(nil)

type moduleBuilder func(bootstrap.Options) (runner, error)

func buildModule(opts bootstrap.Options) (runner, error) {
	return bootstrap.BuildModule(opts)
}

type app struct {
	out   io.Writer
	build moduleBuilder

	configFile string
	envFiles   []string
	dryRun     bool
	locales    string
	priority   string
	includeAll bool
	logLevel   string
	journalDSN string
}

func newApp(out io.Writer) *app {
	return &app{out: out, build: buildModule}
}

// Execute runs the CLI with args.
func (a *app) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "localesync",
		Short: "Reconcile locale siblings in the headless CMS",
		Long: `localesync keeps the locale variants of CMS documents in step.

It materializes missing trustedBy siblings, converges translation keys,
repairs cross-locale portfolio references, orders landing lists and seeds
dictionary entries. Every run prints a JSON summary on stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env.local, .env)")
	flags.BoolVar(&a.dryRun, "dry-run", false, "plan and report without writing (overrides DRY_RUN)")
	flags.StringVar(&a.locales, "locales", "", "comma separated target locales (overrides SANITY_ACTIVE_LOCALES)")
	flags.StringVar(&a.priority, "priority", "", "comma separated locales whose translation key wins")
	flags.BoolVar(&a.includeAll, "include-unreferenced", false, "append groups no landing references to the canonical order")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.journalDSN, "journal", "", "record outcomes in the journal at this DSN")

	root.AddCommand(a.syncCommand(), a.listCommand(), a.historyCommand())
	return root
}

func (a *app) syncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a reconciliation",
	}

	trustedBy := &cobra.Command{
		Use:   "trusted-by",
		Short: "Materialize trustedBy siblings and rewrite landing order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, m runner) (*localesync.Result, error) {
				return m.SyncTrustedBy(ctx)
			})
		},
	}

	references := &cobra.Command{
		Use:   "references",
		Short: "Repoint trustedBy portfolio references to same-locale portfolios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, m runner) (*localesync.Result, error) {
				return m.RepairReferences(ctx)
			})
		},
	}

	var pairsFile string
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Converge translation keys across declared portfolio groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := seeds.LoadPairs(pairsFile)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, m runner) (*localesync.Result, error) {
				return m.BackfillKeys(ctx, groups)
			})
		},
	}
	keys.Flags().StringVar(&pairsFile, "pairs", "", "YAML file declaring portfolio groups")
	_ = keys.MarkFlagRequired("pairs")

	var seedFile string
	var taxonomies bool
	dictionary := &cobra.Command{
		Use:   "dictionary",
		Short: "Append missing static UI copy to every dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var entries []localesync.SeedEntry
			if seedFile != "" {
				loaded, err := seeds.LoadEntries(seedFile)
				if err != nil {
					return err
				}
				entries = loaded
			}
			return a.run(cmd, func(ctx context.Context, m runner) (*localesync.Result, error) {
				return m.SeedDictionary(ctx, entries, taxonomies)
			})
		},
	}
	dictionary.Flags().StringVar(&seedFile, "seed", "", "YAML or Markdown file listing dictionary entries")
	dictionary.Flags().BoolVar(&taxonomies, "taxonomies", false, "also seed one entry per taxonomy term")

	cmd.AddCommand(trustedBy, references, keys, dictionary)
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	var docType, locales string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print documents of one type as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withModule(cmd, true, func(ctx context.Context, m runner) error {
				docs, err := m.List(ctx, docType, splitList(locales))
				if err != nil {
					return err
				}
				return a.print(docs)
			})
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "document type, e.g. portfolio or trustedBy")
	cmd.Flags().StringVar(&locales, "locale", "", "comma separated locales to include")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) historyCommand() *cobra.Command {
	var runID string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print journal entries for a run, or the most recent ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withModule(cmd, true, func(ctx context.Context, m runner) error {
				entries, err := m.History(ctx, runID, limit)
				if err != nil {
					return err
				}
				return a.print(entries)
			})
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "run id to show")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of recent entries when --run is empty")
	return cmd
}

func (a *app) run(cmd *cobra.Command, fn func(context.Context, runner) (*localesync.Result, error)) error {
	return a.withModule(cmd, false, func(ctx context.Context, m runner) error {
		result, err := fn(ctx, m)
		if err != nil {
			return err
		}
		if err := a.print(result); err != nil {
			return err
		}
		if result != nil && result.Summary.Failed > 0 {
			return errRunFailed
		}
		return nil
	})
}

func (a *app) withModule(cmd *cobra.Command, readOnly bool, fn func(context.Context, runner) error) (err error) {
	opts := a.options(cmd)
	if readOnly {
		dry := true
		opts.Overrides.DryRun = &dry
	}
	module, err := a.build(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := module.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(cmd.Context(), module)
}

func (a *app) options(cmd *cobra.Command) bootstrap.Options {
	opts := bootstrap.Options{
		ConfigFile: a.configFile,
		EnvFiles:   a.envFiles,
		Overrides: bootstrap.Overrides{
			Locales:         splitList(a.locales),
			PriorityLocales: splitList(a.priority),
			LogLevel:        a.logLevel,
			JournalDSN:      a.journalDSN,
		},
	}
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		dry := a.dryRun
		opts.Overrides.DryRun = &dry
	}
	if flags.Changed("include-unreferenced") {
		include := a.includeAll
		opts.Overrides.IncludeUnreferencedGroups = &include
	}
	return opts
}

func (a *app) print(value any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
