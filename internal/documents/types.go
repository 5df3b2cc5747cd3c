package documents

// Document types handled by the reconciler.
const (
	TypePortfolio  = "portfolio"
	TypeTrustedBy  = "trustedBy"
	TypeLanding    = "landing"
	TypeDictionary = "dictionary"
)

// Taxonomy document types. They are not localized.
const (
	TypeServiceType = "serviceType"
	TypeWorkType    = "workType"
	TypeClientType  = "clientType"
	TypeSkill       = "skill"
)

// Meta holds the fields every localized document shares.
type Meta struct {
	ID             string `json:"_id"`
	Type           string `json:"_type"`
	Rev            string `json:"_rev,omitempty"`
	UpdatedAt      string `json:"_updatedAt,omitempty"`
	Locale         string `json:"locale,omitempty"`
	TranslationKey string `json:"translationKey,omitempty"`
}

// DocumentID returns the stored identifier, draft prefix included.
func (m Meta) DocumentID() string { return m.ID }

// DocumentLocale returns the document locale.
func (m Meta) DocumentLocale() string { return m.Locale }

// GroupKey returns the translation key, empty when unassigned.
func (m Meta) GroupKey() string { return m.TranslationKey }

// LastUpdated returns the store's _updatedAt timestamp.
func (m Meta) LastUpdated() string { return m.UpdatedAt }

// Localized is implemented by every locale-partitioned variant.
type Localized interface {
	DocumentID() string
	DocumentLocale() string
	GroupKey() string
}

// Slug mirrors the store's slug object.
type Slug struct {
	Type    string `json:"_type,omitempty"`
	Current string `json:"current"`
}

// Reference points at another document by id.
type Reference struct {
	Type string `json:"_type,omitempty"`
	Ref  string `json:"_ref"`
	Key  string `json:"_key,omitempty"`
	Weak bool   `json:"_weak,omitempty"`
}

// NewReference builds a strong reference to the base id of target.
func NewReference(target, key string) Reference {
	return Reference{Type: "reference", Ref: BaseID(target), Key: key}
}

// Image is an image field with its asset reference and editor metadata.
type Image struct {
	Type    string         `json:"_type,omitempty"`
	Asset   *Reference     `json:"asset,omitempty"`
	Alt     string         `json:"alt,omitempty"`
	Hotspot map[string]any `json:"hotspot,omitempty"`
	Crop    map[string]any `json:"crop,omitempty"`
}

// HasAsset reports whether the image points at an uploaded asset.
func (i *Image) HasAsset() bool {
	return i != nil && i.Asset != nil && i.Asset.Ref != ""
}

// Portfolio is a case study, localized.
type Portfolio struct {
	Meta
	Title string `json:"title,omitempty"`
	Slug  *Slug  `json:"slug,omitempty"`
}

// SlugValue returns the current slug or "".
func (p Portfolio) SlugValue() string { return slugValue(p.Slug) }

// TrustedBy is a client logo entry pointing at a portfolio case study.
type TrustedBy struct {
	Meta
	Name          string     `json:"name,omitempty"`
	Slug          *Slug      `json:"slug,omitempty"`
	Logo          *Image     `json:"logo,omitempty"`
	Order         *float64   `json:"order,omitempty"`
	PortfolioWork *Reference `json:"portfolioWork,omitempty"`
}

// SlugValue returns the current slug or "".
func (t TrustedBy) SlugValue() string { return slugValue(t.Slug) }

// PortfolioRef returns the referenced portfolio id or "".
func (t TrustedBy) PortfolioRef() string {
	if t.PortfolioWork == nil {
		return ""
	}
	return t.PortfolioWork.Ref
}

// Landing is the per-locale landing page holding the ordered trustedBy list.
type Landing struct {
	Meta
	TrustedBy []Reference `json:"trustedBy,omitempty"`
}

// DictionaryEntry is one localized UI label.
type DictionaryEntry struct {
	Type  string `json:"_type,omitempty"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Notes string `json:"notes,omitempty"`
	// ItemKey is the array item key the store requires on every array member.
	ItemKey string `json:"_key,omitempty"`
}

// Dictionary holds the UI label entries of one locale.
type Dictionary struct {
	Meta
	Entries []DictionaryEntry `json:"entries,omitempty"`
}

// HasKey reports whether an entry with key exists.
func (d Dictionary) HasKey(key string) bool {
	for _, entry := range d.Entries {
		if entry.Key == key {
			return true
		}
	}
	return false
}

// Taxonomy is a non-localized classification document.
type Taxonomy struct {
	Meta
	Title string `json:"title,omitempty"`
	Value *Slug  `json:"value,omitempty"`
}

// SlugValue returns the taxonomy slug or "".
func (t Taxonomy) SlugValue() string { return slugValue(t.Value) }

func slugValue(s *Slug) string {
	if s == nil {
		return ""
	}
	return s.Current
}
