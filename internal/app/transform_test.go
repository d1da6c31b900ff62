package app

import "testing"

func TestApplyTransformEmptyExpression(t *testing.T) {
	records := []map[string]any{{"id": float64(1)}, {"id": float64(2)}}
	out, err := ApplyTransform("", records)
	if err != nil {
		t.Fatalf("ApplyTransform: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
	m, ok := out[0].(map[string]any)
	if !ok || m["id"] != float64(1) {
		t.Errorf("records should pass through unchanged: %v", out[0])
	}
}

func TestApplyTransformPerRecord(t *testing.T) {
	records := []map[string]any{
		{"id": float64(10), "name": "a"},
		{"id": float64(20), "name": "b"},
	}
	out, err := ApplyTransform(`{"ticket": id}`, records)
	if err != nil {
		t.Fatalf("ApplyTransform: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("batch shape must be preserved, got %d results", len(out))
	}
	first, ok := out[0].(map[string]any)
	if !ok || first["ticket"] != float64(10) {
		t.Errorf("result 0: %v", out[0])
	}
}

func TestApplyTransformBadExpression(t *testing.T) {
	if _, err := ApplyTransform(`{invalid`, []map[string]any{{}}); err == nil {
		t.Fatal("expected compile error")
	}
}
