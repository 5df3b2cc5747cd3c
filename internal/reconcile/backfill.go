package reconcile

import (
	"sort"
	"strings"

	"github.com/goliatone/go-locale-sync/internal/documents"
)

// PairGroup declares one portfolio translation group as locale → slug.
type PairGroup map[string]string

// Locales returns the declared locales sorted.
func (g PairGroup) Locales() []string {
	out := make([]string, 0, len(g))
	for locale := range g {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// PlanKeyBackfill converges the translation key of every declared portfolio
// group. A group with any member missing from the store is skipped whole.
func PlanKeyBackfill(snap *Snapshot, groups []PairGroup, opts PlanOptions) *Plan {
	plan := NewPlan("keys")
	noteRejected(plan, snap)

	bySlug := map[string]map[string]Sibling[documents.Portfolio]{}
	for _, sib := range snap.Portfolios {
		locale, slug := sib.Locale(), sib.Primary().SlugValue()
		if slug == "" {
			continue
		}
		if bySlug[locale] == nil {
			bySlug[locale] = map[string]Sibling[documents.Portfolio]{}
		}
		current, exists := bySlug[locale][slug]
		if exists {
			kept := current
			if prefer(sib, current) {
				kept = sib
			}
			plan.Report.Duplicates = append(plan.Report.Duplicates, Duplicate{
				Type:   documents.TypePortfolio,
				Group:  slug,
				Locale: locale,
				Kept:   kept.BaseID,
				IDs:    []string{current.BaseID, sib.BaseID},
			})
			bySlug[locale][slug] = kept
			continue
		}
		bySlug[locale][slug] = sib
	}

	for _, group := range groups {
		locales := group.Locales()
		members := make(map[string]Sibling[documents.Portfolio], len(locales))
		complete := true
		for _, locale := range locales {
			slug := strings.TrimSpace(group[locale])
			member, ok := bySlug[locale][slug]
			if slug == "" || !ok {
				plan.skip(Skip{
					Reason:  SkipMissingDocument,
					DocType: documents.TypePortfolio,
					Locale:  locale,
					Detail:  "slug " + slug,
				})
				complete = false
				continue
			}
			members[locale] = member
		}
		if !complete || len(members) == 0 {
			continue
		}

		keys := make(map[string]string, len(members))
		for locale, member := range members {
			keys[locale] = member.Key()
		}
		canonical, _ := ResolveCanonicalKey(keys, priorityOrder(opts), opts.keyGenerator())

		for _, locale := range locales {
			member := members[locale]
			drifted := false
			for _, variant := range member.Variants() {
				if variant.TranslationKey != canonical {
					drifted = true
				}
			}
			if !drifted {
				continue
			}
			plan.add(Operation{
				Kind:         OpPatch,
				DocType:      documents.TypePortfolio,
				ID:           member.BaseID,
				Locale:       locale,
				Group:        canonical,
				Reason:       "backfill translationKey",
				Set:          map[string]any{"translationKey": canonical},
				HasPublished: member.HasPublished(),
			})
		}
	}
	return plan
}
