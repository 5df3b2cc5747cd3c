// Package validation checks decoded documents and seed files against JSON
// schemas compiled with santhosh-tekuri/jsonschema.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("validation: schema invalid")
	ErrSchemaValidation = errors.New("validation: payload does not match schema")
)

// Issue is one failed keyword, located by JSON pointer.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if !strings.HasPrefix(location, "#") {
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// Error lists every issue found in one payload. It matches ErrSchemaValidation.
type Error struct {
	Schema string
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s", e.Schema, ErrSchemaValidation.Error())
	}
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return ErrSchemaValidation
}

// Issues returns the issues carried by err, or nil when err is not a
// validation error.
func Issues(err error) []Issue {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Issues
	}
	return nil
}

// Schema is a compiled draft 2020-12 schema.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile compiles schema, registered under name.
func Compile(name string, schema map[string]any) (*Schema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "schema"
	}
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	resource := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile is Compile for package level schemas.
func MustCompile(name string, schema map[string]any) *Schema {
	compiled, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Validate checks payload. Store documents and YAML seeds are re-encoded as
// JSON first since the validator only understands JSON-decoded values.
func (s *Schema) Validate(payload map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if payload == nil {
		payload = map[string]any{}
	}
	value, err := asJSON(payload)
	if err != nil {
		return &Error{Schema: s.name, Issues: []Issue{{Message: err.Error()}}}
	}
	if err := s.compiled.Validate(value); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return &Error{Schema: s.name, Issues: []Issue{{Message: err.Error()}}}
		}
		return &Error{Schema: s.name, Issues: leaves(verr, nil)}
	}
	return nil
}

func asJSON(payload map[string]any) (any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// leaves flattens the cause tree to its innermost failures.
func leaves(node *jsonschema.ValidationError, out []Issue) []Issue {
	if len(node.Causes) == 0 {
		return append(out, Issue{
			Location: strings.TrimSpace(node.InstanceLocation),
			Message:  strings.TrimSpace(node.Message),
		})
	}
	for _, cause := range node.Causes {
		out = leaves(cause, out)
	}
	return out
}
