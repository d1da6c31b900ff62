package glpi

import "testing"

func TestIsAbsent(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"blank string", "   ", true},
		{"zero float", float64(0), false},
		{"zero int", 0, false},
		{"false", false, false},
		{"stringified zero", "0", false},
		{"empty object literal", "{}", true},
		{"empty array literal", "[]", true},
		{"padded empty object", "  { }  ", true},
		{"padded empty array", " [ ] ", true},
		{"stringified null", "null", true},
		{"array of empty objects", []any{map[string]any{}, map[string]any{}}, true},
		{"stringified array of empty objects", `[{}]`, true},
		{"array with value", []any{float64(1)}, false},
		{"stringified array with value", "[1]", false},
		{"empty map", map[string]any{}, true},
		{"map with key", map[string]any{"a": float64(1)}, false},
		{"stringified map with key", `{"a":1}`, false},
		{"plain string", "Printer broken", false},
		{"empty slice", []any{}, true},
		{"mixed slice", []any{map[string]any{}, "x"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAbsent(tc.val); got != tc.want {
				t.Errorf("IsAbsent(%#v) = %v, want %v", tc.val, got, tc.want)
			}
		})
	}
}
