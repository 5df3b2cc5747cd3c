package seeds

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-locale-sync/internal/validation"
)

func TestLoadPairs(t *testing.T) {
	groups, err := LoadPairs(filepath.Join("testdata", "pairs.yaml"))
	if err != nil {
		t.Fatalf("LoadPairs: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0]["en"] != "alpha" || groups[0]["lv"] != "alfa" {
		t.Fatalf("unexpected first group %v", groups[0])
	}
	if groups[1]["lv"] != "beta-lv" {
		t.Fatalf("expected trimmed slug, got %q", groups[1]["lv"])
	}
}

func TestParsePairsRejectsInvalidShape(t *testing.T) {
	_, err := ParsePairs([]byte("groups:\n  - en: 3\n    lv: [a]\n"))
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	if issues := validation.Issues(err); len(issues) == 0 {
		t.Fatalf("expected validation issues")
	}
}

func TestParsePairsEmpty(t *testing.T) {
	_, err := ParsePairs([]byte("groups: []\n"))
	if !errors.Is(err, ErrEmptyPairs) {
		t.Fatalf("expected ErrEmptyPairs, got %v", err)
	}
}

func TestLoadEntriesYAML(t *testing.T) {
	entries, err := LoadEntries(filepath.Join("testdata", "copy.yaml"))
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected duplicates dropped, got %d entries", len(entries))
	}
	if entries[0].Key != "nav.contact" || entries[0].Value != "Contact" || entries[0].Notes != "header link" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
}

func TestLoadEntriesMarkdown(t *testing.T) {
	entries, err := LoadEntries(filepath.Join("testdata", "copy.md"))
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Key != "cta.more" || entries[1].Value != "Learn more" {
		t.Fatalf("unexpected entry %+v", entries[1])
	}
}

func TestParseEntriesRequiresKey(t *testing.T) {
	_, err := ParseEntries([]byte("entries:\n  - value: orphan\n"))
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestLoadEntriesMissingFile(t *testing.T) {
	if _, err := LoadEntries(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
