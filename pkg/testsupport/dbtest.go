package testsupport

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a private in-memory SQLite database for a journal
// test. The name, usually t.Name(), keeps parallel tests apart; connections
// opened with the same name share one database.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	label := strings.NewReplacer("/", "_", " ", "_").Replace(strings.TrimSpace(name))
	if label == "" {
		label = "journal"
	}
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", label))
}
