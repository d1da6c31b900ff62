package glpi

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// sessionHeaders are the GLPI-specific request headers the API accepts on
// every operation. They become unrestricted header descriptors so a host can
// route them per item without the OpenAPI document declaring each one.
var sessionHeaders = []string{
	"Accept-Language",
	"GLPI-Entity",
	"GLPI-Entity-Recursive",
	"GLPI-Profile",
}

// OperationInfo is the listing entry for one operation in the document.
type OperationInfo struct {
	ID         string `json:"id"` // "METHOD /template"
	Summary    string `json:"summary,omitempty"`
	Parameters int    `json:"parameters"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// LoadDocument loads a GLPI OpenAPI document from a file path, URL, or raw
// content bytes.
func LoadDocument(location string, content []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	if len(content) > 0 {
		if location != "" {
			if loc, err := url.Parse(location); err == nil {
				return loader.LoadFromDataWithPath(content, loc)
			}
		}
		return loader.LoadFromData(content)
	}

	if location == "" {
		return nil, fmt.Errorf("document location or content is required")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		loc, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid document URL %q: %w", location, err)
		}
		return loader.LoadFromURI(loc)
	}
	return loader.LoadFromFile(location)
}

// BuildIndex walks the document's paths and methods once, producing the
// operation list and the field-descriptor index the dispatcher classifies
// against. Path, query, and header parameters become descriptors restricted
// to their operation; top-level properties of a JSON request body become
// body descriptors; GLPI session headers become unrestricted descriptors.
func BuildIndex(doc *openapi3.T) ([]OperationInfo, *Index, error) {
	var ops []OperationInfo
	var fields []FieldDescriptor

	if doc.Paths != nil {
		for _, path := range doc.Paths.InMatchingOrder() {
			pathItem := doc.Paths.Find(path)
			if pathItem == nil {
				continue
			}
			for method, op := range pathItem.Operations() {
				if !allowedMethods[method] {
					continue
				}
				opID := Operation{Method: method, Template: path}.ID()
				opFields := descriptorsFor(opID, pathItem, op)
				fields = append(fields, opFields...)
				ops = append(ops, OperationInfo{
					ID:         opID,
					Summary:    op.Summary,
					Parameters: len(opFields),
					Deprecated: op.Deprecated,
				})
			}
		}
	}

	for _, h := range sessionHeaders {
		fields = append(fields, FieldDescriptor{Name: h, In: InHeader})
	}

	sort.Slice(ops, func(i, j int) bool { return ops[i].ID < ops[j].ID })
	return ops, NewIndex(fields), nil
}

// descriptorsFor builds the field descriptors for one operation.
func descriptorsFor(opID string, pathItem *openapi3.PathItem, op *openapi3.Operation) []FieldDescriptor {
	var fields []FieldDescriptor

	for _, paramRef := range mergeParameters(pathItem.Parameters, op.Parameters) {
		if paramRef == nil || paramRef.Value == nil {
			continue
		}
		param := paramRef.Value
		var in Destination
		switch param.In {
		case openapi3.ParameterInPath:
			in = InPath
		case openapi3.ParameterInQuery:
			in = InQuery
		case openapi3.ParameterInHeader:
			in = InHeader
		default:
			continue // cookies are not routable here
		}
		fields = append(fields, FieldDescriptor{
			Name:       param.Name,
			In:         in,
			Operations: []string{opID},
		})
	}

	for _, name := range bodyProperties(op) {
		fields = append(fields, FieldDescriptor{
			Name:       name,
			In:         InBody,
			Operations: []string{opID},
		})
	}

	return fields
}

// mergeParameters merges path-level and operation-level parameters.
// Operation-level parameters override path-level ones with the same name+in.
func mergeParameters(pathParams, opParams openapi3.Parameters) openapi3.Parameters {
	if len(pathParams) == 0 {
		return opParams
	}
	if len(opParams) == 0 {
		return pathParams
	}

	seen := map[string]bool{}
	merged := make(openapi3.Parameters, 0, len(pathParams)+len(opParams))
	for _, p := range opParams {
		merged = append(merged, p)
		if p != nil && p.Value != nil {
			seen[p.Value.In+"\x00"+p.Value.Name] = true
		}
	}
	for _, p := range pathParams {
		if p != nil && p.Value != nil && seen[p.Value.In+"\x00"+p.Value.Name] {
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// bodyProperties returns the sorted top-level property names of the
// operation's JSON request body schema, if any.
func bodyProperties(op *openapi3.Operation) []string {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	names := make([]string, 0, len(media.Schema.Value.Properties))
	for name := range media.Schema.Value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
