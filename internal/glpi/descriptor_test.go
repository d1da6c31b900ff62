package glpi

import "testing"

func TestIndexForPartitionsByOperation(t *testing.T) {
	ix := NewIndex([]FieldDescriptor{
		{Name: "id", In: InPath, Operations: []string{"GET /Ticket/{id}"}},
		{Name: "name", In: InBody, Operations: []string{"POST /Ticket"}},
		{Name: "content", In: InBody, Operations: []string{"POST /Ticket"}},
		{Name: "page", In: InQuery, Operations: []string{"GET /Ticket", "GET /Computer"}},
	})

	got := ix.For("POST /Ticket")
	if len(got) != 2 {
		t.Fatalf("POST /Ticket: got %d descriptors, want 2", len(got))
	}
	for _, f := range got {
		if f.Name != "name" && f.Name != "content" {
			t.Errorf("unexpected descriptor %q for POST /Ticket", f.Name)
		}
	}

	if got := ix.For("GET /Computer"); len(got) != 1 || got[0].Name != "page" {
		t.Errorf("multi-operation descriptor not indexed under every operation: %v", got)
	}

	if got := ix.For("DELETE /Ticket/{id}"); len(got) != 0 {
		t.Errorf("unknown operation should match nothing, got %d", len(got))
	}
}

func TestIndexUnrestrictedDescriptorMatchesEverywhere(t *testing.T) {
	ix := NewIndex([]FieldDescriptor{
		{Name: "GLPI-Entity", In: InHeader},
		{Name: "id", In: InPath, Operations: []string{"GET /Ticket/{id}"}},
	})

	for _, opID := range []string{"GET /Ticket/{id}", "POST /Ticket", "DELETE /Computer/{id}"} {
		found := false
		for _, f := range ix.For(opID) {
			if f.Name == "GLPI-Entity" {
				found = true
			}
		}
		if !found {
			t.Errorf("unrestricted descriptor missing for %q", opID)
		}
	}
}

func TestIndexRestrictedDescriptorExcluded(t *testing.T) {
	ix := NewIndex([]FieldDescriptor{
		{Name: "status", In: InQuery, Operations: []string{"GET /Ticket"}},
	})
	for _, f := range ix.For("GET /Computer") {
		if f.Name == "status" {
			t.Error("descriptor restricted to GET /Ticket leaked into GET /Computer")
		}
	}
}

func TestTargetKeyDefaultsToName(t *testing.T) {
	f := FieldDescriptor{Name: "entity"}
	if f.TargetKey() != "entity" {
		t.Errorf("got %q, want entity", f.TargetKey())
	}
	f.Key = "GLPI-Entity"
	if f.TargetKey() != "GLPI-Entity" {
		t.Errorf("got %q, want GLPI-Entity", f.TargetKey())
	}
}
