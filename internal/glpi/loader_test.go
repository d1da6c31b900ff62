package glpi

import (
	"testing"
)

const testDoc = `{
	"openapi": "3.0.3",
	"info": {"title": "GLPI", "version": "11.0"},
	"paths": {
		"/Ticket": {
			"get": {
				"summary": "List tickets",
				"parameters": [
					{"name": "page", "in": "query", "schema": {"type": "integer"}},
					{"name": "GLPI-Profile", "in": "header", "schema": {"type": "integer"}}
				],
				"responses": {"200": {"description": "ok"}}
			},
			"post": {
				"summary": "Create a ticket",
				"requestBody": {
					"content": {
						"application/json": {
							"schema": {
								"type": "object",
								"properties": {
									"name": {"type": "string"},
									"content": {"type": "string"}
								}
							}
						}
					}
				},
				"responses": {"201": {"description": "created"}}
			}
		},
		"/Ticket/{id}": {
			"parameters": [
				{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}
			],
			"get": {
				"summary": "Read a ticket",
				"responses": {"200": {"description": "ok"}}
			},
			"delete": {
				"summary": "Delete a ticket",
				"responses": {"204": {"description": "gone"}}
			}
		}
	}
}`

func loadTestIndex(t *testing.T) ([]OperationInfo, *Index) {
	t.Helper()
	doc, err := LoadDocument("", []byte(testDoc))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	ops, index, err := BuildIndex(doc)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return ops, index
}

func TestBuildIndexOperations(t *testing.T) {
	ops, _ := loadTestIndex(t)

	want := map[string]bool{
		"GET /Ticket":         true,
		"POST /Ticket":        true,
		"GET /Ticket/{id}":    true,
		"DELETE /Ticket/{id}": true,
	}
	if len(ops) != len(want) {
		t.Fatalf("operations: got %d, want %d (%v)", len(ops), len(want), ops)
	}
	for _, op := range ops {
		if !want[op.ID] {
			t.Errorf("unexpected operation %q", op.ID)
		}
		if _, err := ParseOperation(op.ID); err != nil {
			t.Errorf("operation %q does not parse: %v", op.ID, err)
		}
	}
}

func TestBuildIndexDescriptors(t *testing.T) {
	_, index := loadTestIndex(t)

	byName := func(opID string) map[string]Destination {
		out := map[string]Destination{}
		for _, f := range index.For(opID) {
			out[f.Name] = f.In
		}
		return out
	}

	get := byName("GET /Ticket")
	if get["page"] != InQuery {
		t.Errorf("page should be a query descriptor, got %v", get)
	}
	if get["GLPI-Profile"] != InHeader {
		t.Errorf("GLPI-Profile should be a header descriptor, got %v", get)
	}

	post := byName("POST /Ticket")
	if post["name"] != InBody || post["content"] != InBody {
		t.Errorf("request body properties should be body descriptors, got %v", post)
	}
	if _, leaked := post["page"]; leaked {
		t.Error("GET query descriptor leaked into POST")
	}

	read := byName("GET /Ticket/{id}")
	if read["id"] != InPath {
		t.Errorf("path-level id parameter should apply to GET /Ticket/{id}, got %v", read)
	}
	del := byName("DELETE /Ticket/{id}")
	if del["id"] != InPath {
		t.Errorf("path-level id parameter should apply to DELETE /Ticket/{id}, got %v", del)
	}
}

func TestBuildIndexSessionHeadersEverywhere(t *testing.T) {
	_, index := loadTestIndex(t)

	for _, opID := range []string{"GET /Ticket", "POST /Ticket", "DELETE /Ticket/{id}"} {
		found := map[string]bool{}
		for _, f := range index.For(opID) {
			if f.In == InHeader {
				found[f.Name] = true
			}
		}
		for _, h := range sessionHeaders {
			if !found[h] {
				t.Errorf("session header %q missing for %q", h, opID)
			}
		}
	}
}
