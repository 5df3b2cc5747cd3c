// Package seeds reads the operator-supplied input files: portfolio pair
// declarations for key backfill and static UI copy for dictionary seeding.
package seeds

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/internal/validation"
)

var (
	// ErrEmptyPairs is returned when a pairs file declares no groups.
	ErrEmptyPairs = errors.New("seeds: no pair groups declared")
	// ErrEmptyEntries is returned when a seed file declares no entries.
	ErrEmptyEntries = errors.New("seeds: no dictionary entries declared")
)

var pairsSchema = validation.MustCompile("pairs", map[string]any{
	"type":     "object",
	"required": []any{"groups"},
	"properties": map[string]any{
		"groups": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"minProperties":        1,
				"additionalProperties": map[string]any{"type": "string", "minLength": 1},
			},
		},
	},
})

var entriesSchema = validation.MustCompile("entries", map[string]any{
	"type":     "object",
	"required": []any{"entries"},
	"properties": map[string]any{
		"entries": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"key", "value"},
				"properties": map[string]any{
					"key":   map[string]any{"type": "string", "minLength": 1},
					"value": map[string]any{"type": "string"},
					"notes": map[string]any{"type": "string"},
				},
			},
		},
	},
})

type pairsFile struct {
	Groups []map[string]string `yaml:"groups"`
}

type entriesFile struct {
	Entries []reconcile.SeedEntry `yaml:"entries"`
}

// LoadPairs reads a YAML file of the form
//
//	groups:
//	  - en: alpha
//	    lv: alfa
func LoadPairs(path string) ([]reconcile.PairGroup, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seeds: read pairs: %w", err)
	}
	return ParsePairs(source)
}

// ParsePairs decodes and validates pair declarations.
func ParsePairs(source []byte) ([]reconcile.PairGroup, error) {
	if err := validateYAML(pairsSchema, source); err != nil {
		return nil, fmt.Errorf("seeds: pairs: %w", err)
	}
	var file pairsFile
	if err := yaml.Unmarshal(source, &file); err != nil {
		return nil, fmt.Errorf("seeds: decode pairs: %w", err)
	}
	out := make([]reconcile.PairGroup, 0, len(file.Groups))
	for _, group := range file.Groups {
		pair := reconcile.PairGroup{}
		for locale, slug := range group {
			locale, slug = strings.TrimSpace(locale), strings.TrimSpace(slug)
			if locale == "" || slug == "" {
				continue
			}
			pair[locale] = slug
		}
		if len(pair) > 0 {
			out = append(out, pair)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyPairs
	}
	return out, nil
}

// LoadEntries reads dictionary seed entries. Markdown files carry the list
// in their front matter; anything else is read as plain YAML.
func LoadEntries(path string) ([]reconcile.SeedEntry, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seeds: read entries: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return ParseEntriesMarkdown(source)
	default:
		return ParseEntries(source)
	}
}

// ParseEntries decodes a YAML document with a top-level entries list.
func ParseEntries(source []byte) ([]reconcile.SeedEntry, error) {
	if err := validateYAML(entriesSchema, source); err != nil {
		return nil, fmt.Errorf("seeds: entries: %w", err)
	}
	var file entriesFile
	if err := yaml.Unmarshal(source, &file); err != nil {
		return nil, fmt.Errorf("seeds: decode entries: %w", err)
	}
	return normalizeEntries(file.Entries)
}

// ParseEntriesMarkdown reads the entries list from a Markdown front matter
// block. The body is ignored.
func ParseEntriesMarkdown(source []byte) ([]reconcile.SeedEntry, error) {
	var raw map[string]any
	if _, err := frontmatter.Parse(bytes.NewReader(source), &raw); err != nil {
		return nil, fmt.Errorf("seeds: parse frontmatter: %w", err)
	}
	if err := entriesSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("seeds: entries: %w", err)
	}
	var file entriesFile
	if _, err := frontmatter.Parse(bytes.NewReader(source), &file); err != nil {
		return nil, fmt.Errorf("seeds: parse frontmatter: %w", err)
	}
	return normalizeEntries(file.Entries)
}

func normalizeEntries(entries []reconcile.SeedEntry) ([]reconcile.SeedEntry, error) {
	out := make([]reconcile.SeedEntry, 0, len(entries))
	seen := map[string]bool{}
	for _, entry := range entries {
		entry.Key = strings.TrimSpace(entry.Key)
		if entry.Key == "" || seen[entry.Key] {
			continue
		}
		seen[entry.Key] = true
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil, ErrEmptyEntries
	}
	return out, nil
}

func validateYAML(schema *validation.Schema, source []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return schema.Validate(raw)
}
