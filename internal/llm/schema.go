package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema validates decoded model output.
type Schema struct {
	schema *jsonschema.Schema
}

// CompileSchema compiles a JSON schema given as a Go value.
func CompileSchema(name string, schemaMap map[string]any) (*Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// MustCompileSchema is like CompileSchema but panics on error.
func MustCompileSchema(name string, schemaMap map[string]any) *Schema {
	s, err := CompileSchema(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a value decoded by FirstJSONObject or FirstJSONArray.
// Failures wrap common.ErrMalformedResponse.
func (s *Schema) Validate(v any) error {
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("%w: json does not match schema: %v", common.ErrMalformedResponse, err)
	}
	return nil
}
