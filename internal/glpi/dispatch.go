package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ValueFunc resolves a parameter name against one input item. A return of
// ErrNotApplicable (bare or wrapped) means the item supplies no value for
// the name and is swallowed; any other error is a real evaluation failure
// and propagates.
type ValueFunc func(name string) (any, error)

// Item is one input record of a batch: the operation to perform and the
// lookup over its parameter values. Transient; created and discarded within
// a single dispatch pass.
type Item struct {
	Operation string    // operation identifier; empty means the batch default
	Values    ValueFunc // per-item parameter lookup
}

// MapItem builds an Item over a plain parameter map.
func MapItem(operation string, values map[string]any) Item {
	return Item{
		Operation: operation,
		Values: func(name string) (any, error) {
			v, ok := values[name]
			if !ok {
				return nil, ErrNotApplicable
			}
			return v, nil
		},
	}
}

// Record is one output record: a response element, a wrapped response body,
// or a captured per-item error under the "error" key.
type Record map[string]any

// NewRecord wraps an arbitrary JSON value into a Record. Objects become the
// record directly; anything else is wrapped under "result".
func NewRecord(v any) Record {
	if m, ok := v.(map[string]any); ok {
		return Record(m)
	}
	return Record{"result": v}
}

// ErrorRecord captures a continuable per-item failure.
func ErrorRecord(err error) Record {
	return Record{"error": err.Error()}
}

// Dispatcher drives the per-item request construction and execution.
// Index and Tokens are read-only here and may be shared; the zero policy
// aborts the batch on the first item error, ContinueOnFail captures errors
// as records instead.
type Dispatcher struct {
	Index          *Index
	Tokens         *TokenSource
	Client         *http.Client
	BaseURL        string
	DefaultOp      string
	ContinueOnFail bool
}

// NewDispatcher wires a dispatcher for a credential. The HTTP client honors
// the credential's TLS toggle for the per-item calls as well as the token
// exchange.
func NewDispatcher(cred Credential, index *Index, defaultOp string, continueOnFail bool) *Dispatcher {
	return &Dispatcher{
		Index:          index,
		Tokens:         NewTokenSource(cred),
		Client:         cred.HTTPClient(),
		BaseURL:        strings.TrimRight(cred.BaseURL, "/"),
		DefaultOp:      defaultOp,
		ContinueOnFail: continueOnFail,
	}
}

// Run executes the batch sequentially, one item at a time. Items never
// overlap; the token is acquired at most once while it stays valid. On a
// non-continuable item error the remaining items are abandoned and the error
// is returned alongside the records produced so far.
func (d *Dispatcher) Run(ctx context.Context, items []Item) ([]Record, error) {
	records := make([]Record, 0, len(items))
	for i, item := range items {
		out, err := d.Dispatch(ctx, item)
		if err != nil {
			if !d.ContinueOnFail {
				return records, fmt.Errorf("item %d: %w", i, err)
			}
			records = append(records, ErrorRecord(err))
			continue
		}
		records = append(records, out...)
	}
	return records, nil
}

// Dispatch executes a single item: parse the operation, resolve the path,
// classify and fetch parameters, issue the call, and fan the response out
// into records.
func (d *Dispatcher) Dispatch(ctx context.Context, item Item) ([]Record, error) {
	opID := item.Operation
	if opID == "" {
		opID = d.DefaultOp
	}
	op, err := ParseOperation(opID)
	if err != nil {
		return nil, err
	}

	// A hard lookup failure during path resolution must surface as a value
	// error, not masquerade as a missing path parameter.
	var lookupErr error
	path, err := ResolvePath(op.Template, func(name string) (any, bool) {
		v, lerr := item.Values(name)
		if lerr != nil {
			if !errors.Is(lerr, ErrNotApplicable) && lookupErr == nil {
				lookupErr = Errorf(CodeValueError, "parameter %q: %v", name, lerr)
			}
			return nil, false
		}
		return v, true
	})
	if lookupErr != nil {
		return nil, lookupErr
	}
	if err != nil {
		return nil, err
	}

	body := map[string]any{}
	query := url.Values{}
	headers := map[string]string{}
	for _, field := range d.Index.For(op.ID()) {
		if field.In == InPath {
			continue // already consumed by ResolvePath
		}
		v, lerr := item.Values(field.Name)
		if lerr != nil {
			if errors.Is(lerr, ErrNotApplicable) {
				continue
			}
			return nil, Errorf(CodeValueError, "parameter %q: %v", field.Name, lerr)
		}
		if IsAbsent(v) {
			continue
		}
		switch field.In {
		case InQuery:
			query.Set(field.TargetKey(), fmt.Sprintf("%v", v))
		case InHeader:
			headers[field.TargetKey()] = fmt.Sprintf("%v", v)
		default:
			body[field.TargetKey()] = v
		}
	}

	req, err := d.buildRequest(ctx, op, path, body, query, headers)
	if err != nil {
		return nil, err
	}

	resp, err := d.client().Do(req)
	if err != nil {
		return nil, Errorf(CodeRequestFailed, "%s %s: %v", op.Method, path, err)
	}
	defer resp.Body.Close()

	return normalizeResponse(resp)
}

func (d *Dispatcher) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

// buildRequest assembles the Request Descriptor: method, absolute URL,
// headers, query, and JSON body (only for payload methods, only when
// non-empty), plus the bearer token.
func (d *Dispatcher) buildRequest(ctx context.Context, op Operation, path string, body map[string]any, query url.Values, headers map[string]string) (*http.Request, error) {
	reqURL := d.BaseURL + APIBasePath + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if hasBody(op.Method) && len(body) > 0 {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, Errorf(CodeRequestFailed, "marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, reqURL, bodyReader)
	if err != nil {
		return nil, Errorf(CodeRequestFailed, "build request: %v", err)
	}

	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	token, err := d.Tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return req, nil
}

// normalizeResponse turns the HTTP response into output records: a JSON
// array fans out to one record per element, anything else becomes a single
// record. Non-2xx statuses are errors carrying the response body as details.
func normalizeResponse(resp *http.Response) ([]Record, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Errorf(CodeRequestFailed, "read response: %v", err)
	}

	var parsed any
	if len(bytes.TrimSpace(respBody)) > 0 {
		if jerr := json.Unmarshal(respBody, &parsed); jerr != nil {
			parsed = string(respBody)
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Code:    HTTPErrorCode(resp.StatusCode),
			Message: fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			Details: parsed,
		}
	}

	if seq, ok := parsed.([]any); ok {
		records := make([]Record, 0, len(seq))
		for _, el := range seq {
			records = append(records, NewRecord(el))
		}
		return records, nil
	}
	return []Record{NewRecord(parsed)}, nil
}
