package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is one persisted write outcome.
type Entry struct {
	bun.BaseModel `bun:"table:locale_sync_journal,alias:j"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	RunID      string    `bun:"run_id,notnull" json:"run_id"`
	Plan       string    `bun:"plan,notnull" json:"plan"`
	Kind       string    `bun:"kind,notnull" json:"kind"`
	DocType    string    `bun:"doc_type" json:"doc_type,omitempty"`
	DocumentID string    `bun:"document_id,notnull" json:"document_id"`
	Target     string    `bun:"target,notnull" json:"target"`
	Locale     string    `bun:"locale" json:"locale,omitempty"`
	GroupKey   string    `bun:"group_key" json:"group,omitempty"`
	Fields     string    `bun:"fields" json:"fields,omitempty"`
	Status     string    `bun:"status,notnull" json:"status"`
	DryRun     bool      `bun:"dry_run,notnull,default:false" json:"dry_run"`
	Error      string    `bun:"error" json:"error,omitempty"`
	RecordedAt time.Time `bun:"recorded_at,notnull" json:"recorded_at"`
}
