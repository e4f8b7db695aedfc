package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/exambank/internal/bank"
)

// entry is one key/value pair of a mapping, in document order.
type entry struct {
	key   string
	value any // json.RawMessage or *yaml.Node
}

// LoadPoints reads a points table from a JSON or YAML file.
func LoadPoints(path string) (Points, error) {
	outer, err := readMapping(path, "points", pointsSchema)
	if err != nil {
		return nil, err
	}

	p := make(Points, len(outer))
	for _, te := range outer {
		typ, err := bank.ParseType(te.key)
		if err != nil {
			return nil, fmt.Errorf("points %s: %w", path, err)
		}
		inner, err := mappingEntries(te.value)
		if err != nil {
			return nil, fmt.Errorf("points %s: type %q: %w", path, te.key, err)
		}
		byTopic := make(map[string]float64, len(inner))
		for _, e := range inner {
			var v float64
			if err := decodeValue(e.value, &v); err != nil {
				return nil, fmt.Errorf("points %s: %s/%s: %w", path, te.key, e.key, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("points %s: %s/%s: negative value %v", path, te.key, e.key, v)
			}
			byTopic[e.key] = v
		}
		p[typ] = byTopic
	}
	return p, nil
}

// LoadRequirements reads topic -> type -> count quotas from a JSON or
// YAML file, keeping the order in which they are written.
func LoadRequirements(path string) (Requirements, error) {
	outer, err := readMapping(path, "requirements", requirementsSchema)
	if err != nil {
		return nil, err
	}

	var reqs Requirements
	for _, te := range outer {
		inner, err := mappingEntries(te.value)
		if err != nil {
			return nil, fmt.Errorf("requirements %s: topic %q: %w", path, te.key, err)
		}
		for _, e := range inner {
			typ, err := bank.ParseType(e.key)
			if err != nil {
				return nil, fmt.Errorf("requirements %s: topic %q: %w", path, te.key, err)
			}
			var n int
			if err := decodeValue(e.value, &n); err != nil {
				return nil, fmt.Errorf("requirements %s: %s/%s: %w", path, te.key, e.key, err)
			}
			if n < 0 {
				return nil, fmt.Errorf("requirements %s: %s/%s: negative count %d", path, te.key, e.key, n)
			}
			reqs = append(reqs, Requirement{Topic: te.key, Type: typ, Count: n})
		}
	}
	return reqs, nil
}

// readMapping loads the top-level mapping of a config file. JSON files
// are checked against schema first; YAML files rely on the typed checks
// of the caller.
func readMapping(path, name string, schema map[string]any) ([]entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s %s: %w", name, path, err)
		}
		if len(doc.Content) == 0 {
			return nil, nil
		}
		entries, err := mappingEntries(doc.Content[0])
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", name, path, err)
		}
		return entries, nil
	default:
		if err := validateJSON(name, schema, data); err != nil {
			return nil, fmt.Errorf("%s %s: %w", name, path, err)
		}
		entries, err := mappingEntries(json.RawMessage(data))
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", name, path, err)
		}
		return entries, nil
	}
}

// mappingEntries returns the key/value pairs of a JSON object or YAML
// mapping in document order.
func mappingEntries(v any) ([]entry, error) {
	switch v := v.(type) {
	case *yaml.Node:
		if v.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("expected a mapping, got %s", yamlKind(v.Kind))
		}
		out := make([]entry, 0, len(v.Content)/2)
		for i := 0; i+1 < len(v.Content); i += 2 {
			out = append(out, entry{key: v.Content[i].Value, value: v.Content[i+1]})
		}
		return out, nil

	case json.RawMessage:
		dec := json.NewDecoder(bytes.NewReader(v))
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("expected an object")
		}
		var out []entry
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := tok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("value of %q: %w", key, err)
			}
			out = append(out, entry{key: key, value: raw})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported document node %T", v)
	}
}

func decodeValue(v any, dst any) error {
	switch v := v.(type) {
	case *yaml.Node:
		return v.Decode(dst)
	case json.RawMessage:
		return json.Unmarshal(v, dst)
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
}

func yamlKind(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "mapping"
	}
}
