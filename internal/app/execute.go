package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glpikit/cli/internal/glpi"
)

// RunInput is the input for a batch execution.
type RunInput struct {
	SpecLocation   string           // OpenAPI document path or URL
	Operation      string           // batch-level operation identifier
	Items          []map[string]any // one parameter bag per item
	ContextName    string           // named context supplying credentials
	ContinueOnFail bool             // capture per-item errors as records
	Transform      string           // optional JSONata expression per record
}

// RunOutput is the result of a batch execution.
type RunOutput struct {
	Records    []any       `json:"records"`
	Failed     int         `json:"failed,omitempty"` // error records captured
	DurationMs int64       `json:"durationMs,omitempty"`
	Error      *glpi.Error `json:"error,omitempty"` // batch-aborting error
}

// Render returns a human-friendly representation.
func (o RunOutput) Render() string {
	s := Styles
	var sb strings.Builder

	if o.Error != nil {
		sb.WriteString(s.Error.Render("Error: "))
		sb.WriteString(o.Error.Message)
		if len(o.Records) == 0 {
			return sb.String()
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString(s.Header.Render("Execution Result"))
	sb.WriteString("\n\n")

	sb.WriteString(s.Dim.Render("Records: "))
	sb.WriteString(fmt.Sprintf("%d", len(o.Records)))
	if o.Failed > 0 {
		sb.WriteString(s.Error.Render(fmt.Sprintf(" (%d failed)", o.Failed)))
	}
	sb.WriteString("\n")

	if o.DurationMs > 0 {
		sb.WriteString(s.Dim.Render("Duration: "))
		sb.WriteString(fmt.Sprintf("%dms", o.DurationMs))
		sb.WriteString("\n")
	}

	if len(o.Records) > 0 {
		sb.WriteString(s.Dim.Render("Output: "))
		if j, err := json.MarshalIndent(o.Records, "", "  "); err == nil {
			sb.WriteString(string(j))
		} else {
			sb.WriteString(fmt.Sprintf("%v", o.Records))
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// Run executes a batch of items against a GLPI deployment: load the OpenAPI
// document, build the descriptor index, assemble the credential from the
// named context, dispatch sequentially, and apply the optional output
// transform.
func Run(ctx context.Context, input RunInput) RunOutput {
	start := time.Now()

	doc, err := glpi.LoadDocument(input.SpecLocation, nil)
	if err != nil {
		return failedRun(start, "doc_load_failed", err)
	}
	_, index, err := glpi.BuildIndex(doc)
	if err != nil {
		return failedRun(start, "doc_load_failed", err)
	}

	cred, cfg, err := GetCredential(input.ContextName)
	if err != nil {
		return failedRun(start, glpi.CodeAuthFailed, err)
	}

	dispatcher := glpi.NewDispatcher(cred, index, input.Operation, input.ContinueOnFail)
	items := ToItems(input.Items, cfg.Headers)

	records, runErr := dispatcher.Run(ctx, items)

	out := RunOutput{DurationMs: time.Since(start).Milliseconds()}
	for _, r := range records {
		if _, failed := r["error"]; failed {
			out.Failed++
		}
	}

	raw := make([]map[string]any, len(records))
	for i, r := range records {
		raw[i] = map[string]any(r)
	}
	transformed, terr := ApplyTransform(input.Transform, raw)
	if terr != nil {
		return failedRun(start, "transform_failed", terr)
	}
	out.Records = transformed

	if runErr != nil {
		out.Error = asGLPIError(runErr)
	}
	return out
}

func failedRun(start time.Time, code string, err error) RunOutput {
	return RunOutput{
		DurationMs: time.Since(start).Milliseconds(),
		Error:      &glpi.Error{Code: code, Message: err.Error()},
	}
}

// asGLPIError preserves the structured error when one is in the chain.
func asGLPIError(err error) *glpi.Error {
	var structured *glpi.Error
	if errors.As(err, &structured) {
		return structured
	}
	return &glpi.Error{Code: glpi.CodeRequestFailed, Message: err.Error()}
}

// OperationsOutput lists the operations of an OpenAPI document.
type OperationsOutput struct {
	Spec       string               `json:"spec"`
	Operations []glpi.OperationInfo `json:"operations"`
}

// Render returns a human-friendly operations listing.
func (o OperationsOutput) Render() string {
	if len(o.Operations) == 0 {
		return Styles.Dim.Render("No operations")
	}
	var sb strings.Builder
	sb.WriteString(Styles.Header.Render("Operations:"))
	for _, op := range o.Operations {
		sb.WriteString("\n  ")
		sb.WriteString(Styles.Bullet.Render("•"))
		sb.WriteString(" ")
		sb.WriteString(Styles.Key.Render(op.ID))
		if op.Deprecated {
			sb.WriteString(Styles.Error.Render(" (deprecated)"))
		}
		if op.Summary != "" {
			sb.WriteString(Styles.Dim.Render(" — " + op.Summary))
		}
	}
	return sb.String()
}

// Operations loads an OpenAPI document and lists its operations.
func Operations(specLocation string) (OperationsOutput, error) {
	doc, err := glpi.LoadDocument(specLocation, nil)
	if err != nil {
		return OperationsOutput{}, fmt.Errorf("load OpenAPI document: %w", err)
	}
	ops, _, err := glpi.BuildIndex(doc)
	if err != nil {
		return OperationsOutput{}, err
	}
	return OperationsOutput{Spec: specLocation, Operations: ops}, nil
}

// TokenOutput reports a token acquisition check.
type TokenOutput struct {
	Context   string `json:"context"`
	TokenType string `json:"tokenType,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Render returns a human-friendly token check summary.
func (o TokenOutput) Render() string {
	s := Styles
	msg := s.Success.Render("ok") + " token acquired for context " + s.Key.Render(o.Context)
	if o.ExpiresAt != "" {
		msg += s.Dim.Render(" (expires " + o.ExpiresAt + ")")
	}
	return msg
}

// CheckToken performs one token acquisition for the named context.
func CheckToken(ctx context.Context, contextName string) (TokenOutput, error) {
	cred, _, err := GetCredential(contextName)
	if err != nil {
		return TokenOutput{}, err
	}
	tok, err := glpi.AcquireToken(ctx, cred)
	if err != nil {
		return TokenOutput{}, err
	}
	out := TokenOutput{Context: contextName, TokenType: tok.TokenType}
	if !tok.Expiry.IsZero() {
		out.ExpiresAt = tok.Expiry.Format(time.RFC3339)
	}
	return out, nil
}
