package testsupport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// LoadDocuments reads a dataset export: one JSON document per line. Blank
// lines are skipped.
func LoadDocuments(path string) ([]interfaces.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var docs []interfaces.RawDocument
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		doc := interfaces.RawDocument{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
