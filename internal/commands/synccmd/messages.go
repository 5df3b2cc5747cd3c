package synccmd

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-locale-sync/internal/documents"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
)

const (
	syncTrustedByMessageType    = "localesync.sync.trusted_by"
	repairReferencesMessageType = "localesync.sync.references"
	backfillKeysMessageType     = "localesync.sync.keys"
	seedDictionaryMessageType   = "localesync.sync.dictionary"
	listDocumentsMessageType    = "localesync.documents.list"
)

// SyncTrustedByCommand requests a trustedBy sibling and landing order run.
type SyncTrustedByCommand struct{}

// Type implements command.Message.
func (SyncTrustedByCommand) Type() string { return syncTrustedByMessageType }

// Validate implements command.Message.
func (SyncTrustedByCommand) Validate() error { return nil }

// RepairReferencesCommand requests a portfolioWork reference repair run.
type RepairReferencesCommand struct{}

// Type implements command.Message.
func (RepairReferencesCommand) Type() string { return repairReferencesMessageType }

// Validate implements command.Message.
func (RepairReferencesCommand) Validate() error { return nil }

// BackfillKeysCommand declares the portfolio groups whose keys must converge.
type BackfillKeysCommand struct {
	Groups []reconcile.PairGroup `json:"groups"`
}

// Type implements command.Message.
func (BackfillKeysCommand) Type() string { return backfillKeysMessageType }

// Validate ensures every group names at least two locales with a slug each.
func (m BackfillKeysCommand) Validate() error {
	errs := validation.Errors{}
	if len(m.Groups) == 0 {
		errs["groups"] = validation.NewError("localesync.keys.groups_required", "at least one group is required")
	}
	for i, group := range m.Groups {
		field := fmt.Sprintf("groups[%d]", i)
		if len(group) < 2 {
			errs[field] = validation.NewError("localesync.keys.group_too_small", "a group needs at least two locales")
			continue
		}
		for _, locale := range group.Locales() {
			if strings.TrimSpace(locale) == "" || strings.TrimSpace(group[locale]) == "" {
				errs[field] = validation.NewError("localesync.keys.slug_required", "every locale needs a slug")
				break
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SeedDictionaryCommand appends missing dictionary keys.
type SeedDictionaryCommand struct {
	Entries           []reconcile.SeedEntry `json:"entries"`
	IncludeTaxonomies bool                  `json:"include_taxonomies"`
}

// Type implements command.Message.
func (SeedDictionaryCommand) Type() string { return seedDictionaryMessageType }

// Validate rejects empty runs, blank keys and repeated keys.
func (m SeedDictionaryCommand) Validate() error {
	errs := validation.Errors{}
	if len(m.Entries) == 0 && !m.IncludeTaxonomies {
		errs["entries"] = validation.NewError("localesync.dictionary.nothing_to_seed", "entries or include_taxonomies is required")
	}
	seen := make(map[string]bool, len(m.Entries))
	for i, entry := range m.Entries {
		key := strings.TrimSpace(entry.Key)
		field := fmt.Sprintf("entries[%d]", i)
		switch {
		case key == "":
			errs[field] = validation.NewError("localesync.dictionary.key_required", "key is required")
		case seen[key]:
			errs[field] = validation.NewError("localesync.dictionary.key_duplicated", "key "+key+" is listed twice")
		}
		seen[key] = true
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListDocumentsCommand lists the documents of one type.
type ListDocumentsCommand struct {
	DocType string   `json:"type"`
	Locales []string `json:"locales,omitempty"`
}

// Type implements command.Message.
func (ListDocumentsCommand) Type() string { return listDocumentsMessageType }

// Validate ensures the document type is one the toolkit decodes.
func (m ListDocumentsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.DocType, validation.Required, validation.By(knownDocumentType)),
	)
}

func knownDocumentType(value any) error {
	docType, _ := value.(string)
	if docType == "" {
		return nil
	}
	if !documents.KnownType(docType) {
		return validation.NewError("localesync.documents.type_unknown", "unknown document type "+docType)
	}
	return nil
}
