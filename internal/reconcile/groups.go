package reconcile

import (
	"sort"

	"github.com/goliatone/go-locale-sync/internal/documents"
)

// Sibling is one logical document: the published variant and its draft,
// either of which may be absent.
type Sibling[T documents.Localized] struct {
	BaseID    string
	Published *T
	Draft     *T
}

// Primary returns the variant whose fields are read when cloning or matching:
// the published one when present, otherwise the draft.
func (s Sibling[T]) Primary() T {
	if s.Published != nil {
		return *s.Published
	}
	if s.Draft != nil {
		return *s.Draft
	}
	var zero T
	return zero
}

// Variants returns the present variants, published first.
func (s Sibling[T]) Variants() []T {
	out := make([]T, 0, 2)
	if s.Published != nil {
		out = append(out, *s.Published)
	}
	if s.Draft != nil {
		out = append(out, *s.Draft)
	}
	return out
}

// HasPublished reports whether the snapshot observed a published variant.
func (s Sibling[T]) HasPublished() bool { return s.Published != nil }

// Locale returns the locale of the primary variant.
func (s Sibling[T]) Locale() string { return s.Primary().DocumentLocale() }

// Key returns the first non-empty translation key across variants.
func (s Sibling[T]) Key() string {
	for _, variant := range s.Variants() {
		if key := variant.GroupKey(); key != "" {
			return key
		}
	}
	return ""
}

// Collapse folds raw variants into logical documents keyed by base id. The
// result is sorted by base id.
func Collapse[T documents.Localized](docs []T) []Sibling[T] {
	byID := make(map[string]*Sibling[T], len(docs))
	order := make([]string, 0, len(docs))
	for i := range docs {
		doc := docs[i]
		id := doc.DocumentID()
		base := documents.BaseID(id)
		entry, ok := byID[base]
		if !ok {
			entry = &Sibling[T]{BaseID: base}
			byID[base] = entry
			order = append(order, base)
		}
		if documents.IsDraft(id) {
			entry.Draft = &doc
		} else {
			entry.Published = &doc
		}
	}
	sort.Strings(order)
	out := make([]Sibling[T], 0, len(order))
	for _, base := range order {
		out = append(out, *byID[base])
	}
	return out
}

// Duplicate records two or more logical documents claiming the same
// (group, locale) slot.
type Duplicate struct {
	Type   string   `json:"type"`
	Group  string   `json:"group"`
	Locale string   `json:"locale"`
	Kept   string   `json:"kept"`
	IDs    []string `json:"ids"`
}

// GroupIndex maps translation group → locale → logical document.
type GroupIndex[T documents.Localized] struct {
	Groups     map[string]map[string]Sibling[T]
	Order      []string
	Unkeyed    []Sibling[T]
	Duplicates []Duplicate
}

// Member returns the document of group in locale.
func (g *GroupIndex[T]) Member(group, locale string) (Sibling[T], bool) {
	members, ok := g.Groups[group]
	if !ok {
		return Sibling[T]{}, false
	}
	sib, ok := members[locale]
	return sib, ok
}

// Set records sib as the member of group in locale, replacing any prior member.
func (g *GroupIndex[T]) Set(group, locale string, sib Sibling[T]) {
	members, ok := g.Groups[group]
	if !ok {
		members = map[string]Sibling[T]{}
		g.Groups[group] = members
		g.Order = append(g.Order, group)
	}
	members[locale] = sib
}

// IndexGroups buckets logical documents by the group key keyOf returns.
// Documents without a key land in Unkeyed. When two logical documents claim
// the same (group, locale), the published one wins over a draft-only one and
// the lower base id wins otherwise; the collision is reported.
func IndexGroups[T documents.Localized](docType string, siblings []Sibling[T], keyOf func(Sibling[T]) string) *GroupIndex[T] {
	index := &GroupIndex[T]{Groups: map[string]map[string]Sibling[T]{}}
	dupes := map[[2]string]*Duplicate{}
	var dupeOrder [][2]string

	for _, sib := range siblings {
		key := keyOf(sib)
		if key == "" {
			index.Unkeyed = append(index.Unkeyed, sib)
			continue
		}
		locale := sib.Locale()
		current, exists := index.Member(key, locale)
		if !exists {
			index.Set(key, locale, sib)
			continue
		}

		slot := [2]string{key, locale}
		dupe, seen := dupes[slot]
		if !seen {
			dupe = &Duplicate{Type: docType, Group: key, Locale: locale, IDs: []string{current.BaseID}}
			dupes[slot] = dupe
			dupeOrder = append(dupeOrder, slot)
		}
		dupe.IDs = append(dupe.IDs, sib.BaseID)
		if prefer(sib, current) {
			index.Set(key, locale, sib)
		}
	}

	for _, slot := range dupeOrder {
		dupe := dupes[slot]
		sort.Strings(dupe.IDs)
		kept, _ := index.Member(slot[0], slot[1])
		dupe.Kept = kept.BaseID
		index.Duplicates = append(index.Duplicates, *dupe)
	}
	return index
}

func prefer[T documents.Localized](candidate, current Sibling[T]) bool {
	if candidate.HasPublished() != current.HasPublished() {
		return candidate.HasPublished()
	}
	return candidate.BaseID < current.BaseID
}
