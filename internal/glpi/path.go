package glpi

import (
	"fmt"
	"net/url"
	"strings"
)

// LookupFunc resolves a path parameter name to its per-item value.
// The second return is false when the item supplies no value for the name.
type LookupFunc func(name string) (any, bool)

// ResolvePath substitutes every {name} token in a URL template with the
// looked-up value, URL-encoded. Tokens whose lookup fails stay literal; after
// the pass any remaining {...} token is an error naming all unresolved tokens,
// so a request never goes out with a placeholder still in the URL (those
// surface downstream as confusing 404s).
//
// Substitution is a single token-by-token pass, not a manually advanced
// global-regex scan, so adjacent tokens cannot be skipped or doubled.
func ResolvePath(template string, lookup LookupFunc) (string, error) {
	var b strings.Builder
	var unresolved []string

	rest := template
	for {
		pre, tail, ok := strings.Cut(rest, "{")
		b.WriteString(pre)
		if !ok {
			break
		}
		name, after, closed := strings.Cut(tail, "}")
		if !closed {
			// unterminated brace is itself an unresolved token
			unresolved = append(unresolved, "{"+tail)
			b.WriteString("{" + tail)
			break
		}
		if v, found := lookup(name); found && !IsAbsent(v) {
			b.WriteString(url.PathEscape(fmt.Sprintf("%v", v)))
		} else {
			unresolved = append(unresolved, "{"+name+"}")
			b.WriteString("{" + name + "}")
		}
		rest = after
	}

	if len(unresolved) > 0 {
		return "", Errorf(CodeMissingPathParams,
			"missing required path parameter(s) %s in %q",
			strings.Join(unresolved, ", "), template)
	}
	return b.String(), nil
}
