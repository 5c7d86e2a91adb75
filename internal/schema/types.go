package schema

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Finding is one reported issue in a source file.
type Finding struct {
	Type string `json:"type"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// StructuredResult is the JSON artifact body produced by the structured
// (LLM) analyzer for one source file.
//
// Raw carries the unparsed model reply when the response could not be
// decoded as findings; Issues is empty in that case.
type StructuredResult struct {
	File   string    `json:"file"`
	Issues []Finding `json:"issues"`
	Raw    string    `json:"raw,omitempty"`
}

// LocationList is the text artifact body produced by the location-list
// analyzer: one "basename:line" entry per physical line, in the external
// tool's own emission order. An empty list serializes to an empty file,
// which is a valid zero-finding result.
type LocationList []string

// Marshal renders the list as the on-disk text artifact.
func (l LocationList) Marshal() []byte {
	return []byte(strings.Join(l, "\n"))
}

// ParseLocationList splits an artifact body back into entries.
func ParseLocationList(data []byte) LocationList {
	trimmed := bytes.TrimRight(data, "\n")
	if len(trimmed) == 0 {
		return LocationList{}
	}
	return LocationList(strings.Split(string(trimmed), "\n"))
}

// Kind selects the result representation for a run.
type Kind string

const (
	// KindStructured compares JSON finding sets.
	KindStructured Kind = "structured"
	// KindLocations compares first lines of basename:line text files.
	KindLocations Kind = "locations"
)

// Ext returns the sidecar artifact extension for the representation.
func (k Kind) Ext() string {
	if k == KindLocations {
		return "txt"
	}
	return "json"
}

// Outcome is the per-file result of one harness run.
type Outcome string

const (
	OutcomeCreated Outcome = "CREATED"
	OutcomePassed  Outcome = "PASS"
	OutcomeFailed  Outcome = "FAIL"
	OutcomeError   Outcome = "ERROR"
)

// FileResult records the outcome for a single source file.
type FileResult struct {
	Path       string  `json:"path"`
	Outcome    Outcome `json:"outcome"`
	Diagnostic string  `json:"diagnostic,omitempty"`
}

// Summary accumulates outcomes across a run. Counting is a plain multiset
// over files; FailedFiles keeps the processing order for display.
type Summary struct {
	Total       int           `json:"total"`
	Created     int           `json:"created"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	Errors      int           `json:"errors"`
	FailedFiles []string      `json:"failed_files,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Record counts one outcome.
func (s *Summary) Record(path string, o Outcome) {
	s.Total++
	switch o {
	case OutcomeCreated:
		s.Created++
	case OutcomePassed:
		s.Passed++
	case OutcomeFailed:
		s.Failed++
		s.FailedFiles = append(s.FailedFiles, path)
	case OutcomeError:
		s.Errors++
	}
}

// ExitCode maps the summary to a process exit code. A run where every
// baseline was freshly created exits zero. Errors flip the exit code only
// when failOnError is set.
func (s *Summary) ExitCode(failOnError bool) int {
	if s.Failed > 0 {
		return 1
	}
	if failOnError && s.Errors > 0 {
		return 1
	}
	return 0
}

func (s *Summary) String() string {
	return fmt.Sprintf("total=%d created=%d passed=%d failed=%d errors=%d elapsed=%s",
		s.Total, s.Created, s.Passed, s.Failed, s.Errors, s.Elapsed.Round(time.Millisecond))
}

// RunReport is the persisted record of one run, written as results.json
// into the output directory and consumed by the report command.
type RunReport struct {
	Root      string       `json:"root"`
	Kind      Kind         `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`
	Files     []FileResult `json:"files"`
	Summary   Summary      `json:"summary"`
}

// SortFindings orders a copy of findings by (file, line, type). Used for
// diff rendering only; verdicts never depend on order.
func SortFindings(in []Finding) []Finding {
	out := make([]Finding, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Type < out[j].Type
	})
	return out
}
