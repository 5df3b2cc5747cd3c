package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-locale-sync/internal/documents"
	"github.com/goliatone/go-locale-sync/internal/identity"
)

// PlanTrustedBySync is the trustedBy run: it derives the canonical group
// order from the landings, materializes missing locale siblings, converges
// translation keys and portfolio references, and rewrites each landing's
// trustedBy list when its order drifted.
func PlanTrustedBySync(snap *Snapshot, opts PlanOptions) (*Plan, error) {
	plan := NewPlan("trustedBy")
	noteRejected(plan, snap)

	portfolioByID := make(map[string]Sibling[documents.Portfolio], len(snap.Portfolios))
	for _, sib := range snap.Portfolios {
		portfolioByID[sib.BaseID] = sib
	}
	portfolios := IndexGroups(documents.TypePortfolio, snap.Portfolios, Sibling[documents.Portfolio].Key)
	plan.countUnkeyed(documents.TypePortfolio, len(portfolios.Unkeyed))
	plan.Report.Duplicates = append(plan.Report.Duplicates, portfolios.Duplicates...)

	groupOf := func(sib Sibling[documents.TrustedBy]) string {
		target, ok := portfolioByID[documents.BaseID(sib.Primary().PortfolioRef())]
		if !ok {
			return ""
		}
		return target.Key()
	}
	trustedByID := make(map[string]Sibling[documents.TrustedBy], len(snap.TrustedBy))
	taken := map[string]map[string]bool{}
	for _, sib := range snap.TrustedBy {
		trustedByID[sib.BaseID] = sib
		for _, variant := range sib.Variants() {
			markTaken(taken, variant.Locale, variant.SlugValue())
		}
	}
	trusted := IndexGroups(documents.TypeTrustedBy, snap.TrustedBy, groupOf)
	plan.countUnkeyed(documents.TypeTrustedBy, len(trusted.Unkeyed))
	plan.Report.Duplicates = append(plan.Report.Duplicates, trusted.Duplicates...)

	orderings := make([][]string, 0, len(opts.Locales))
	var missingLandings []string
	for _, locale := range opts.Locales {
		landing, ok := snap.Landings[locale]
		if !ok {
			missingLandings = append(missingLandings, locale)
			continue
		}
		ordering := make([]string, 0, len(landing.Primary().TrustedBy))
		for _, ref := range landing.Primary().TrustedBy {
			if sib, ok := trustedByID[documents.BaseID(ref.Ref)]; ok {
				ordering = append(ordering, groupOf(sib))
			}
		}
		orderings = append(orderings, ordering)
	}
	if len(missingLandings) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrLandingMissing, strings.Join(missingLandings, ", "))
	}

	extras := make([]GroupLabel, 0, len(trusted.Order))
	for _, key := range trusted.Order {
		base, _ := pickBase(trusted.Groups[key], opts)
		extras = append(extras, GroupLabel{Key: key, Name: base.Primary().Name})
	}
	order := CanonicalOrder(orderings, extras, opts.IncludeUnreferencedGroups)
	plan.Report.Order = order

	reportMissingGroups(plan, portfolios, trusted, opts.MissingGroupsReportLimit)

	for _, key := range order {
		members := trusted.Groups[key]
		base, ok := pickBase(members, opts)
		if !ok {
			plan.skip(Skip{Reason: SkipNoBaseDocument, DocType: documents.TypeTrustedBy, Group: key})
			continue
		}

		keys := make(map[string]string, len(members))
		for locale, member := range members {
			keys[locale] = member.Key()
		}
		canonical, _ := ResolveCanonicalKey(keys, priorityOrder(opts), opts.keyGenerator())

		for _, locale := range opts.Locales {
			counterpart, ok := portfolios.Member(key, locale)
			if !ok {
				plan.skip(Skip{
					Reason:  SkipMissingCounterpart,
					DocType: documents.TypePortfolio,
					Locale:  locale,
					Group:   key,
					Detail:  "no portfolio in locale for group",
				})
				continue
			}

			member, exists := members[locale]
			if !exists {
				created, ok := materialize(plan, base, counterpart, key, locale, canonical, taken)
				if ok {
					trusted.Set(key, locale, created)
				}
				continue
			}

			set := map[string]any{}
			for _, variant := range member.Variants() {
				if variant.TranslationKey != canonical {
					set["translationKey"] = canonical
				}
				if documents.BaseID(variant.PortfolioRef()) != counterpart.BaseID {
					set["portfolioWork"] = referenceField(counterpart.BaseID, "")
				}
			}
			if len(set) > 0 {
				plan.add(Operation{
					Kind:         OpPatch,
					DocType:      documents.TypeTrustedBy,
					ID:           member.BaseID,
					Locale:       locale,
					Group:        key,
					Reason:       "converge key and portfolio reference",
					Set:          set,
					HasPublished: member.HasPublished(),
				})
			}
		}
	}

	for _, locale := range opts.Locales {
		planLandingOrder(plan, snap.Landings[locale], locale, order, trusted)
	}
	return plan, nil
}

func materialize(plan *Plan, base Sibling[documents.TrustedBy], counterpart Sibling[documents.Portfolio], group, locale, canonical string, taken map[string]map[string]bool) (Sibling[documents.TrustedBy], bool) {
	src := base.Primary()
	skip := Skip{DocType: documents.TypeTrustedBy, ID: base.BaseID, Locale: locale, Group: group}
	if strings.TrimSpace(src.Name) == "" {
		skip.Reason = SkipMissingName
		plan.skip(skip)
		return Sibling[documents.TrustedBy]{}, false
	}
	if !src.Logo.HasAsset() {
		skip.Reason = SkipMissingLogo
		plan.skip(skip)
		return Sibling[documents.TrustedBy]{}, false
	}

	slug := documents.UniqueSlug(src.SlugValue(), src.Name, locale,
		func(candidate string) bool { return taken[locale][candidate] },
		func(candidate string) string { return identity.SlugSuffix(documents.TypeTrustedBy, locale, candidate) },
	)
	ref := documents.NewReference(counterpart.BaseID, "")
	id := identity.SiblingDocumentID(documents.TypeTrustedBy, locale, group)
	doc := documents.TrustedBy{
		Meta: documents.Meta{
			ID:             id,
			Type:           documents.TypeTrustedBy,
			Locale:         locale,
			TranslationKey: canonical,
		},
		Name:          src.Name,
		Slug:          &documents.Slug{Type: "slug", Current: slug},
		Logo:          src.Logo,
		Order:         src.Order,
		PortfolioWork: &ref,
	}
	raw, err := documents.Encode(doc)
	if err != nil {
		skip.Reason = SkipInvalidDocument
		skip.Detail = err.Error()
		plan.skip(skip)
		return Sibling[documents.TrustedBy]{}, false
	}

	plan.add(Operation{
		Kind:     OpCreate,
		DocType:  documents.TypeTrustedBy,
		ID:       id,
		Locale:   locale,
		Group:    group,
		Reason:   "materialize missing locale sibling",
		Document: raw,
	})
	markTaken(taken, locale, slug)
	return Sibling[documents.TrustedBy]{BaseID: id, Published: &doc}, true
}

func planLandingOrder(plan *Plan, landing Sibling[documents.Landing], locale string, order []string, trusted *GroupIndex[documents.TrustedBy]) {
	existingKeys := map[string]string{}
	for _, variant := range landing.Variants() {
		for _, ref := range variant.TrustedBy {
			id := documents.BaseID(ref.Ref)
			if _, ok := existingKeys[id]; !ok && ref.Key != "" {
				existingKeys[id] = ref.Key
			}
		}
	}

	targetIDs := make([]string, 0, len(order))
	items := make([]map[string]any, 0, len(order))
	for _, group := range order {
		member, ok := trusted.Member(group, locale)
		if !ok {
			continue
		}
		itemKey := existingKeys[member.BaseID]
		if itemKey == "" {
			itemKey = group
		}
		targetIDs = append(targetIDs, member.BaseID)
		items = append(items, referenceField(member.BaseID, itemKey))
	}

	drifted := false
	for _, variant := range landing.Variants() {
		if !slices.Equal(referenceIDs(variant.TrustedBy), targetIDs) {
			drifted = true
		}
	}
	if !drifted {
		return
	}
	plan.add(Operation{
		Kind:         OpPatch,
		DocType:      documents.TypeLanding,
		ID:           landing.BaseID,
		Locale:       locale,
		Reason:       "rewrite trustedBy order",
		Set:          map[string]any{"trustedBy": items},
		HasPublished: landing.HasPublished(),
	})
}

func reportMissingGroups(plan *Plan, portfolios *GroupIndex[documents.Portfolio], trusted *GroupIndex[documents.TrustedBy], limit int) {
	for _, key := range portfolios.Order {
		if _, ok := trusted.Groups[key]; ok {
			continue
		}
		plan.Report.MissingGroupsTotal++
		if limit > 0 && len(plan.Report.MissingGroups) >= limit {
			continue
		}
		missing := MissingGroup{Group: key, Titles: map[string]string{}}
		for locale, member := range portfolios.Groups[key] {
			missing.Titles[locale] = member.Primary().Title
			missing.Locales = append(missing.Locales, locale)
		}
		sort.Strings(missing.Locales)
		plan.Report.MissingGroups = append(plan.Report.MissingGroups, missing)
	}
}

// pickBase returns the member cloned from: the first present in priority
// order, then any remaining locale alphabetically.
func pickBase[T documents.Localized](members map[string]Sibling[T], opts PlanOptions) (Sibling[T], bool) {
	for _, locale := range priorityOrder(opts) {
		if member, ok := members[locale]; ok {
			return member, true
		}
	}
	rest := make([]string, 0, len(members))
	for locale := range members {
		rest = append(rest, locale)
	}
	sort.Strings(rest)
	if len(rest) == 0 {
		return Sibling[T]{}, false
	}
	return members[rest[0]], true
}

func priorityOrder(opts PlanOptions) []string {
	out := make([]string, 0, len(opts.Priority)+len(opts.Locales))
	for _, locale := range append(slices.Clone(opts.Priority), opts.Locales...) {
		if !slices.Contains(out, locale) {
			out = append(out, locale)
		}
	}
	return out
}

func referenceField(id, key string) map[string]any {
	field := map[string]any{"_type": "reference", "_ref": documents.BaseID(id)}
	if key != "" {
		field["_key"] = key
	}
	return field
}

func referenceIDs(refs []documents.Reference) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, documents.BaseID(ref.Ref))
	}
	return ids
}

func markTaken(taken map[string]map[string]bool, locale, slug string) {
	if slug == "" {
		return
	}
	if taken[locale] == nil {
		taken[locale] = map[string]bool{}
	}
	taken[locale][slug] = true
}

func noteRejected(plan *Plan, snap *Snapshot) {
	plan.Report.Rejected = len(snap.Rejected)
	for _, err := range snap.Rejected {
		skip := Skip{Reason: SkipInvalidDocument, Detail: err.Error()}
		var invalid *documents.InvalidDocumentError
		if errors.As(err, &invalid) {
			skip.ID = invalid.ID
			skip.DocType = invalid.Type
		}
		plan.skip(skip)
	}
}
