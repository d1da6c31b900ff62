// Package app - transform.go provides JSONata transform execution for output records.
package app

import (
	"fmt"

	"github.com/blues/jsonata-go"
)

// ApplyTransform applies a JSONata expression to each output record.
// An empty expression returns the records unchanged. Each record is
// transformed independently so the shape of the batch is preserved.
func ApplyTransform(expression string, records []map[string]any) ([]any, error) {
	if expression == "" {
		out := make([]any, len(records))
		for i, r := range records {
			out[i] = r
		}
		return out, nil
	}

	expr, err := jsonata.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile jsonata expression: %w", err)
	}

	out := make([]any, 0, len(records))
	for i, record := range records {
		normalized, err := NormalizeJSON(record)
		if err != nil {
			return nil, fmt.Errorf("normalize record %d: %w", i, err)
		}
		result, err := expr.Eval(normalized)
		if err != nil {
			return nil, fmt.Errorf("evaluate jsonata expression on record %d: %w", i, err)
		}
		out = append(out, result)
	}
	return out, nil
}
