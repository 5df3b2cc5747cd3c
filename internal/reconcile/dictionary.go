package reconcile

import (
	"slices"
	"strings"

	"github.com/goliatone/go-locale-sync/internal/documents"
	"github.com/goliatone/go-locale-sync/internal/identity"
)

const (
	dictionaryEntryType = "entry"
	seededNote          = "seeded static UI copy"
)

// SeedEntry is a dictionary entry to add when its key is absent.
type SeedEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

var taxonomyPrefixes = map[string]string{
	documents.TypeServiceType: "taxonomy.service",
	documents.TypeWorkType:    "taxonomy.workType",
	documents.TypeClientType:  "taxonomy.clientType",
	documents.TypeSkill:       "taxonomy.skill",
}

// TaxonomyEntries turns taxonomy documents into dictionary seed entries keyed
// taxonomy.<kind>.<slug>. Documents without a slug are ignored.
func TaxonomyEntries(taxonomies []Sibling[documents.Taxonomy]) []SeedEntry {
	out := make([]SeedEntry, 0, len(taxonomies))
	for _, sib := range taxonomies {
		doc := sib.Primary()
		prefix, ok := taxonomyPrefixes[doc.Type]
		slug := doc.SlugValue()
		if !ok || slug == "" {
			continue
		}
		value := strings.TrimSpace(doc.Title)
		if value == "" {
			value = slug
		}
		out = append(out, SeedEntry{
			Key:   prefix + "." + slug,
			Value: value,
			Notes: doc.Type + " " + sib.BaseID,
		})
	}
	return out
}

// PlanDictionarySeed appends every seed entry whose key is missing from a
// locale's dictionary. Existing entries are never modified. Each variant is
// patched on its own so a draft keeps its unpublished entries.
func PlanDictionarySeed(snap *Snapshot, seeds []SeedEntry, opts PlanOptions) *Plan {
	plan := NewPlan("dictionary")
	noteRejected(plan, snap)

	for _, locale := range opts.Locales {
		dict, ok := snap.Dictionaries[locale]
		if !ok {
			plan.skip(Skip{
				Reason:  SkipMissingDocument,
				DocType: documents.TypeDictionary,
				Locale:  locale,
				Detail:  "no dictionary for locale",
			})
			continue
		}

		for _, variant := range dict.Variants() {
			additions := missingEntries(variant, seeds)
			if len(additions) == 0 {
				continue
			}
			entries := append(slices.Clone(variant.Entries), additions...)
			plan.add(Operation{
				Kind:         OpPatch,
				DocType:      documents.TypeDictionary,
				ID:           dict.BaseID,
				Locale:       locale,
				Reason:       "append missing dictionary keys",
				Set:          map[string]any{"entries": entries},
				Targets:      []string{variant.ID},
				HasPublished: dict.HasPublished(),
			})
		}
	}
	return plan
}

func missingEntries(dict documents.Dictionary, seeds []SeedEntry) []documents.DictionaryEntry {
	seen := make(map[string]bool, len(dict.Entries)+len(seeds))
	for _, entry := range dict.Entries {
		seen[entry.Key] = true
	}
	var out []documents.DictionaryEntry
	for _, seed := range seeds {
		key := strings.TrimSpace(seed.Key)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		notes := seed.Notes
		if notes == "" {
			notes = seededNote
		}
		out = append(out, documents.DictionaryEntry{
			Type:    dictionaryEntryType,
			Key:     key,
			Value:   seed.Value,
			Notes:   notes,
			ItemKey: identity.ArrayKey(key),
		})
	}
	return out
}
