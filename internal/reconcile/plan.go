package reconcile

import (
	"github.com/goliatone/go-locale-sync/internal/documents"
	"github.com/goliatone/go-locale-sync/internal/identity"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// OperationKind enumerates the writes a plan may contain.
type OperationKind string

const (
	OpCreate          OperationKind = "create"
	OpPatch           OperationKind = "patch"
	OpCreateOrReplace OperationKind = "createOrReplace"
)

// Operation is one intended write. Patches address a logical document: the
// applier sends the same set to the published id and to its draft unless
// Targets names the ids explicitly.
type Operation struct {
	Kind         OperationKind          `json:"kind"`
	DocType      string                 `json:"doc_type"`
	ID           string                 `json:"id"`
	Locale       string                 `json:"locale,omitempty"`
	Group        string                 `json:"group,omitempty"`
	Reason       string                 `json:"reason,omitempty"`
	Set          map[string]any         `json:"set,omitempty"`
	Document     interfaces.RawDocument `json:"document,omitempty"`
	Targets      []string               `json:"targets,omitempty"`
	HasPublished bool                   `json:"has_published,omitempty"`
}

// PatchTargets returns the ids a patch is sent to, published first.
func (op Operation) PatchTargets() []string {
	if len(op.Targets) > 0 {
		return op.Targets
	}
	base := documents.BaseID(op.ID)
	return []string{base, documents.DraftID(base)}
}

// SkipReason classifies items a planner could not act on.
type SkipReason string

const (
	SkipMissingCounterpart SkipReason = "missing_counterpart"
	SkipMissingName        SkipReason = "missing_name"
	SkipMissingLogo        SkipReason = "missing_logo"
	SkipNoBaseDocument     SkipReason = "no_base_document"
	SkipMissingGroupKey    SkipReason = "missing_group_key"
	SkipNoSibling          SkipReason = "no_sibling"
	SkipDanglingReference  SkipReason = "dangling_reference"
	SkipMissingDocument    SkipReason = "missing_document"
	SkipInvalidDocument    SkipReason = "invalid_document"
)

// Skip records an item left untouched and why.
type Skip struct {
	Reason  SkipReason `json:"reason"`
	DocType string     `json:"doc_type,omitempty"`
	ID      string     `json:"id,omitempty"`
	Locale  string     `json:"locale,omitempty"`
	Group   string     `json:"group,omitempty"`
	Detail  string     `json:"detail,omitempty"`
}

// MissingGroup is a portfolio group without any trustedBy document.
type MissingGroup struct {
	Group   string            `json:"group"`
	Titles  map[string]string `json:"titles"`
	Locales []string          `json:"locales"`
}

// Report carries the diagnostics a planner gathered besides its operations.
type Report struct {
	Unkeyed            map[string]int `json:"unkeyed,omitempty"`
	Duplicates         []Duplicate    `json:"duplicates,omitempty"`
	MissingGroups      []MissingGroup `json:"missing_groups,omitempty"`
	MissingGroupsTotal int            `json:"missing_groups_total,omitempty"`
	Rejected           int            `json:"rejected,omitempty"`
	Order              []string       `json:"order,omitempty"`
}

// Plan is the pure output of a planner: what to write and what was skipped.
type Plan struct {
	Name       string      `json:"name"`
	Operations []Operation `json:"operations"`
	Skips      []Skip      `json:"skips"`
	Report     Report      `json:"report"`
}

// NewPlan returns an empty plan.
func NewPlan(name string) *Plan {
	return &Plan{Name: name, Operations: []Operation{}, Skips: []Skip{}}
}

func (p *Plan) add(op Operation) {
	p.Operations = append(p.Operations, op)
}

func (p *Plan) skip(s Skip) {
	p.Skips = append(p.Skips, s)
}

func (p *Plan) countUnkeyed(docType string, n int) {
	if n == 0 {
		return
	}
	if p.Report.Unkeyed == nil {
		p.Report.Unkeyed = map[string]int{}
	}
	p.Report.Unkeyed[docType] += n
}

// Count returns how many operations of kind the plan holds.
func (p *Plan) Count(kind OperationKind) int {
	total := 0
	for _, op := range p.Operations {
		if op.Kind == kind {
			total++
		}
	}
	return total
}

// PlanOptions parameterises every planner.
type PlanOptions struct {
	// Locales are the target locales, in landing-merge order.
	Locales []string
	// Priority is the locale order used to pick base documents and canonical keys.
	Priority                  []string
	IncludeUnreferencedGroups bool
	MissingGroupsReportLimit  int
	NewKey                    identity.KeyGenerator
}

func (o PlanOptions) keyGenerator() identity.KeyGenerator {
	if o.NewKey != nil {
		return o.NewKey
	}
	return identity.NewTranslationKey
}
