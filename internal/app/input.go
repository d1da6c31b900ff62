package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glpikit/cli/internal/glpi"
)

// OperationKey is the reserved item key selecting a per-item operation
// override; items without it use the batch-level operation.
const OperationKey = "$operation"

// ParseInlineItem parses a single --input JSON object into one item map.
func ParseInlineItem(inputJSON string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(inputJSON), &m); err != nil {
		return nil, fmt.Errorf("invalid input JSON: %w", err)
	}
	return m, nil
}

// LoadItems reads a batch of input items from a file (or stdin when path is
// "-"). JSON input may be a single object or an array of objects; files with
// a .yaml/.yml extension are parsed as a YAML list of mappings.
func LoadItems(path string) ([]map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading items from %q: %w", path, err)
	}

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return parseYAMLItems(data)
	}
	return parseJSONItems(data)
}

func parseJSONItems(data []byte) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []map[string]any
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing items array: %w", err)
		}
		return items, nil
	}
	var item map[string]any
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parsing item object: %w", err)
	}
	return []map[string]any{item}, nil
}

func parseYAMLItems(data []byte) ([]map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML items: %w", err)
	}
	// Round-trip via JSON so nested mappings come out as map[string]any.
	normalized, err := NormalizeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing YAML items: %w", err)
	}
	switch v := normalized.(type) {
	case []any:
		items := make([]map[string]any, 0, len(v))
		for i, el := range v {
			m, ok := el.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("item %d is not a mapping", i)
			}
			items = append(items, m)
		}
		return items, nil
	case map[string]any:
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("items must be a mapping or a list of mappings")
	}
}

// ToItems converts raw item maps into dispatcher items, honoring the
// $operation override and layering context default headers underneath each
// item's own values.
func ToItems(raw []map[string]any, defaultHeaders map[string]string) []glpi.Item {
	items := make([]glpi.Item, 0, len(raw))
	for _, m := range raw {
		operation, _ := m[OperationKey].(string)
		values := make(map[string]any, len(m)+len(defaultHeaders))
		for k, v := range defaultHeaders {
			values[k] = v
		}
		for k, v := range m {
			if k == OperationKey {
				continue
			}
			values[k] = v
		}
		items = append(items, glpi.MapItem(operation, values))
	}
	return items
}
