// Package compare decides whether an actual artifact matches its stored
// baseline under the representation's equality rule.
package compare

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

// Verdict is the outcome of one comparison. On a mismatch Diff keeps both
// sides for diagnostic display.
type Verdict struct {
	Equal bool
	Diff  string
}

// Compare applies the kind-specific equality rule. An artifact that cannot
// be decoded at all is an error, not a failed comparison.
func Compare(kind schema.Kind, actual, expected []byte) (Verdict, error) {
	if kind == schema.KindLocations {
		return firstLine(actual, expected), nil
	}
	return structured(actual, expected)
}

// structured compares the finding collections as unordered multisets of
// (type, file, line): reordering never fails, a missing or extra finding
// on either side always does.
func structured(actual, expected []byte) (Verdict, error) {
	var a, e schema.StructuredResult
	if err := json.Unmarshal(actual, &a); err != nil {
		return Verdict{}, fmt.Errorf("decode actual artifact: %w", err)
	}
	if err := json.Unmarshal(expected, &e); err != nil {
		return Verdict{}, fmt.Errorf("decode expected artifact: %w", err)
	}

	as := schema.SortFindings(a.Issues)
	es := schema.SortFindings(e.Issues)
	if diff := cmp.Diff(es, as); diff != "" {
		return Verdict{
			Equal: false,
			Diff:  fmt.Sprintf("findings mismatch (-expected +actual):\n%s", diff),
		}, nil
	}
	return Verdict{Equal: true}, nil
}

// firstLine compares only the first line of each text artifact, exact
// string equality after trimming a single trailing line terminator.
// Everything past line one is ignored even when present and different.
func firstLine(actual, expected []byte) Verdict {
	a := headLine(actual)
	e := headLine(expected)
	if a == e {
		return Verdict{Equal: true}
	}
	return Verdict{
		Equal: false,
		Diff:  fmt.Sprintf("first-line mismatch: actual=%q expected=%q", a, e),
	}
}

func headLine(data []byte) string {
	s := string(data)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "\r")
}
