package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatOutputJSON(t *testing.T) {
	b, err := FormatOutput(map[string]any{"a": 1}, OutputFormatJSON)
	if err != nil {
		t.Fatalf("FormatOutput: %v", err)
	}
	if !strings.Contains(string(b), `"a": 1`) {
		t.Errorf("got %q", b)
	}
}

func TestFormatOutputYAML(t *testing.T) {
	b, err := FormatOutput(map[string]any{"records": []any{map[string]any{"id": 1}}}, OutputFormatYAML)
	if err != nil {
		t.Fatalf("FormatOutput: %v", err)
	}
	if !strings.Contains(string(b), "records:") {
		t.Errorf("got %q", b)
	}
}

func TestParseOutputFormat(t *testing.T) {
	cases := map[string]OutputFormat{
		"":     OutputFormatText,
		"text": OutputFormatText,
		"json": OutputFormatJSON,
		"yaml": OutputFormatYAML,
		"yml":  OutputFormatYAML,
	}
	for in, want := range cases {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestOutputResultWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	err := OutputResult(map[string]any{"ok": true}, "", path)
	exit, ok := err.(ExitResult)
	if !ok || exit.Code != 0 {
		t.Fatalf("expected zero ExitResult, got %v", err)
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		t.Fatalf("read output file: %v", rerr)
	}
	if !strings.Contains(string(data), "ok: true") {
		t.Errorf("yaml extension should produce yaml, got %q", data)
	}
}

func TestOutputResultQuiet(t *testing.T) {
	err := OutputResultWithCode(map[string]any{"ok": true}, "quiet", "", 3)
	exit, ok := err.(ExitResult)
	if !ok {
		t.Fatalf("expected ExitResult, got %T", err)
	}
	if exit.Code != 3 || exit.Message != "" {
		t.Errorf("quiet should suppress output and keep the code: %+v", exit)
	}
}

type renderableStub struct{}

func (renderableStub) Render() string { return "rendered" }

func TestOutputResultTextUsesRenderable(t *testing.T) {
	err := OutputResult(renderableStub{}, "text", "")
	exit, ok := err.(ExitResult)
	if !ok || exit.Message != "rendered" {
		t.Fatalf("expected Renderable output, got %v", err)
	}
}
