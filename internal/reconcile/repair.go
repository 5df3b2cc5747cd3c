package reconcile

import (
	"slices"

	"github.com/goliatone/go-locale-sync/internal/documents"
)

// PlanReferenceRepair repoints every trustedBy document whose portfolioWork
// targets a portfolio in another locale at that portfolio's sibling in the
// trustedBy document's own locale. Holders outside opts.Locales are ignored
// when locales are configured.
func PlanReferenceRepair(snap *Snapshot, opts PlanOptions) *Plan {
	plan := NewPlan("references")
	noteRejected(plan, snap)

	portfolioByID := make(map[string]Sibling[documents.Portfolio], len(snap.Portfolios))
	for _, sib := range snap.Portfolios {
		portfolioByID[sib.BaseID] = sib
	}
	portfolios := IndexGroups(documents.TypePortfolio, snap.Portfolios, Sibling[documents.Portfolio].Key)
	plan.Report.Duplicates = append(plan.Report.Duplicates, portfolios.Duplicates...)

	for _, holder := range snap.TrustedBy {
		current := documents.BaseID(holder.Primary().PortfolioRef())
		if current == "" {
			continue
		}
		locale := holder.Locale()
		if len(opts.Locales) > 0 && !slices.Contains(opts.Locales, locale) {
			continue
		}
		skip := Skip{DocType: documents.TypeTrustedBy, ID: holder.BaseID, Locale: locale}

		target, ok := portfolioByID[current]
		if !ok {
			skip.Reason = SkipDanglingReference
			skip.Detail = "portfolioWork -> " + current
			plan.skip(skip)
			continue
		}

		desired := target.BaseID
		if target.Locale() != locale {
			key := target.Key()
			if key == "" {
				skip.Reason = SkipMissingGroupKey
				skip.Detail = "referenced portfolio " + target.BaseID + " has no translationKey"
				plan.skip(skip)
				continue
			}
			sibling, ok := portfolios.Member(key, locale)
			if !ok {
				skip.Reason = SkipNoSibling
				skip.Group = key
				plan.skip(skip)
				continue
			}
			desired = sibling.BaseID
		}

		drifted := false
		for _, variant := range holder.Variants() {
			if documents.BaseID(variant.PortfolioRef()) != desired {
				drifted = true
			}
		}
		if !drifted {
			continue
		}
		plan.add(Operation{
			Kind:         OpPatch,
			DocType:      documents.TypeTrustedBy,
			ID:           holder.BaseID,
			Locale:       locale,
			Group:        target.Key(),
			Reason:       "repoint portfolioWork to locale sibling",
			Set:          map[string]any{"portfolioWork": referenceField(desired, "")},
			HasPublished: holder.HasPublished(),
		})
	}
	return plan
}
