package memory

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-locale-sync/internal/store"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// Mutation records one write applied to the store.
type Mutation struct {
	Op  string
	ID  string
	Set map[string]any
}

// Store is an in-memory DocumentStore for fixtures and tests.
type Store struct {
	mu        sync.RWMutex
	docs      map[string]interfaces.RawDocument
	mutations []Mutation
	failures  map[string]error
}

var _ interfaces.DocumentStore = (*Store)(nil)

// New returns a store seeded with docs.
func New(docs ...interfaces.RawDocument) *Store {
	s := &Store{
		docs:     make(map[string]interfaces.RawDocument, len(docs)),
		failures: map[string]error{},
	}
	for _, doc := range docs {
		id, _ := doc["_id"].(string)
		s.docs[id] = clone(doc)
	}
	return s
}

// FailOn makes every write addressed to id fail with err.
func (s *Store) FailOn(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = err
}

// Query implements interfaces.DocumentStore.
func (s *Store) Query(_ context.Context, filter interfaces.DocumentFilter) ([]interfaces.RawDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]interfaces.RawDocument, 0)
	for _, doc := range s.docs {
		if matches(doc, filter) {
			out = append(out, clone(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return stringField(out[i], "_id") < stringField(out[j], "_id")
	})
	return out, nil
}

// Patch implements interfaces.DocumentStore.
func (s *Store) Patch(_ context.Context, id string, set map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[id]; err != nil {
		return err
	}
	doc, ok := s.docs[id]
	if !ok {
		return &store.NotFoundError{ID: id}
	}
	for key, value := range clone(set) {
		doc[key] = value
	}
	s.mutations = append(s.mutations, Mutation{Op: "patch", ID: id, Set: clone(set)})
	return nil
}

// Create implements interfaces.DocumentStore.
func (s *Store) Create(_ context.Context, doc interfaces.RawDocument) (interfaces.RawDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := clone(doc)
	id := stringField(copied, "_id")
	if id == "" {
		id = uuid.NewString()
		copied["_id"] = id
	}
	if err := s.failures[id]; err != nil {
		return nil, err
	}
	if _, exists := s.docs[id]; exists {
		return nil, store.ErrConflict
	}
	s.docs[id] = copied
	s.mutations = append(s.mutations, Mutation{Op: "create", ID: id})
	return clone(copied), nil
}

// CreateOrReplace implements interfaces.DocumentStore.
func (s *Store) CreateOrReplace(_ context.Context, doc interfaces.RawDocument) (interfaces.RawDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := clone(doc)
	id := stringField(copied, "_id")
	if id == "" {
		id = uuid.NewString()
		copied["_id"] = id
	}
	if err := s.failures[id]; err != nil {
		return nil, err
	}
	s.docs[id] = copied
	s.mutations = append(s.mutations, Mutation{Op: "createOrReplace", ID: id})
	return clone(copied), nil
}

// Get returns a copy of the document stored under id.
func (s *Store) Get(id string) (interfaces.RawDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return clone(doc), ok
}

// Mutations returns the writes applied so far, in order.
func (s *Store) Mutations() []Mutation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.mutations)
}

// ResetMutations clears the write log, keeping documents.
func (s *Store) ResetMutations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations = nil
}

func matches(doc interfaces.RawDocument, filter interfaces.DocumentFilter) bool {
	if filter.Type != "" && stringField(doc, "_type") != filter.Type {
		return false
	}
	if len(filter.Locales) > 0 && !slices.Contains(filter.Locales, stringField(doc, "locale")) {
		return false
	}
	if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, stringField(doc, "_id")) {
		return false
	}
	if filter.TranslationKey != "" && stringField(doc, "translationKey") != filter.TranslationKey {
		return false
	}
	if filter.Slug != "" {
		slug, _ := doc["slug"].(map[string]any)
		if current, _ := slug["current"].(string); current != filter.Slug {
			return false
		}
	}
	return true
}

func stringField(doc map[string]any, key string) string {
	value, _ := doc[key].(string)
	return value
}

// clone deep-copies through JSON so callers never share nested maps with the
// store, and values look exactly like decoded HTTP responses.
func clone(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return maps.Clone(doc)
	}
	out := map[string]any{}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return maps.Clone(doc)
	}
	return out
}
