package glpi

import (
	"strings"
)

// Operation is a parsed operation identifier: an HTTP method plus a URL
// template rooted at the API base ("GET /Ticket/{id}"). Built once from the
// OpenAPI document; immutable afterward.
type Operation struct {
	Method   string // GET, POST, PUT, PATCH, DELETE
	Template string // always begins with "/"
}

// ID returns the canonical identifier string for the operation.
func (o Operation) ID() string {
	return o.Method + " " + o.Template
}

// allowedMethods is the method set operation identifiers may encode.
var allowedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// hasBody reports whether the method conventionally carries a JSON payload.
func hasBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// ParseOperation splits an operation identifier on its first space into a
// method and a URL template. The method must be in the allowed set and the
// template must begin with "/"; malformed identifiers are rejected before any
// network call.
func ParseOperation(id string) (Operation, error) {
	method, template, ok := strings.Cut(id, " ")
	if !ok {
		return Operation{}, Errorf(CodeInvalidOperation, "operation %q must be in format \"METHOD /path\"", id)
	}
	method = strings.ToUpper(method)
	if !allowedMethods[method] {
		return Operation{}, Errorf(CodeInvalidOperation, "operation %q has unsupported method %q", id, method)
	}
	if !strings.HasPrefix(template, "/") {
		return Operation{}, Errorf(CodeInvalidOperation, "operation %q template must begin with \"/\"", id)
	}
	return Operation{Method: method, Template: template}, nil
}
