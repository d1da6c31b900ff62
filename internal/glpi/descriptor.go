package glpi

// Destination is where a parameter's value is placed in the outgoing request.
type Destination string

const (
	InPath   Destination = "path"
	InQuery  Destination = "query"
	InHeader Destination = "header"
	InBody   Destination = "body"
)

// FieldDescriptor describes one routable request parameter: its name, where
// its value goes, the key it is sent under, and the operations it applies to.
// An empty Operations set means the descriptor applies to every operation.
type FieldDescriptor struct {
	Name       string      // parameter name as supplied by the host item
	In         Destination // routing destination
	Key        string      // target key; defaults to Name when empty
	Operations []string    // applicable operation identifiers
}

// TargetKey returns the key the value is sent under.
func (f *FieldDescriptor) TargetKey() string {
	if f.Key != "" {
		return f.Key
	}
	return f.Name
}

// Index is the operation-keyed lookup over a field-descriptor population.
// The population can be in the thousands while the subset per operation is
// small, so descriptors are pre-bucketed by operation at construction; For
// runs in time proportional to the matched subset. Read-only after NewIndex.
type Index struct {
	byOp   map[string][]*FieldDescriptor
	global []*FieldDescriptor // descriptors with no operation restriction
}

// NewIndex buckets descriptors by operation identifier. Descriptors with an
// empty Operations set go into the global bucket and match every operation.
func NewIndex(fields []FieldDescriptor) *Index {
	ix := &Index{byOp: make(map[string][]*FieldDescriptor)}
	for i := range fields {
		f := &fields[i]
		if len(f.Operations) == 0 {
			ix.global = append(ix.global, f)
			continue
		}
		for _, op := range f.Operations {
			ix.byOp[op] = append(ix.byOp[op], f)
		}
	}
	return ix
}

// For returns every descriptor applicable to the given operation identifier:
// the descriptors restricted to it plus all unrestricted ones.
func (ix *Index) For(opID string) []*FieldDescriptor {
	scoped := ix.byOp[opID]
	if len(ix.global) == 0 {
		return scoped
	}
	out := make([]*FieldDescriptor, 0, len(scoped)+len(ix.global))
	out = append(out, scoped...)
	out = append(out, ix.global...)
	return out
}
