package sanity

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// BuildQuery compiles a filter into a query expression and its parameters.
// Results are ordered by locale then id so runs see a stable snapshot order.
func BuildQuery(filter interfaces.DocumentFilter) (string, map[string]any) {
	clauses := []string{}
	params := map[string]any{}

	if filter.Type != "" {
		clauses = append(clauses, "_type == $type")
		params["type"] = filter.Type
	}
	if len(filter.Locales) > 0 {
		clauses = append(clauses, "locale in $locales")
		params["locales"] = filter.Locales
	}
	if filter.Slug != "" {
		clauses = append(clauses, "slug.current == $slug")
		params["slug"] = filter.Slug
	}
	if filter.TranslationKey != "" {
		clauses = append(clauses, "translationKey == $translationKey")
		params["translationKey"] = filter.TranslationKey
	}
	if len(filter.IDs) > 0 {
		clauses = append(clauses, "_id in $ids")
		params["ids"] = filter.IDs
	}
	if len(clauses) == 0 {
		clauses = append(clauses, "defined(_id)")
	}
	return fmt.Sprintf("*[%s] | order(locale asc, _id asc)", strings.Join(clauses, " && ")), params
}
