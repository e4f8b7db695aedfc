package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var typeEnum = []any{"true_false", "multiple_choice", "numerical"}

// pointsSchema describes Points.json: type -> topic -> number.
var pointsSchema = map[string]any{
	"type":          "object",
	"propertyNames": map[string]any{"enum": typeEnum},
	"additionalProperties": map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"type":    "number",
			"minimum": 0,
		},
	},
}

// requirementsSchema describes Requirements.json: topic -> type -> count.
var requirementsSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type":          "object",
		"propertyNames": map[string]any{"enum": typeEnum},
		"additionalProperties": map[string]any{
			"type":    "integer",
			"minimum": 0,
		},
	},
}

var compiled sync.Map // name -> *jsonschema.Schema

// validateJSON checks raw against the named schema definition.
func validateJSON(name string, def map[string]any, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := compileSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%s does not match schema: %w", name, err)
	}
	return nil
}

func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON values, not Go literals.
	b, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, err
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(name, s)
	return s, nil
}
