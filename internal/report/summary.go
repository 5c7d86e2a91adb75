package report

import (
	"fmt"
	"io"
	"time"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

// WriteSummary prints the closing block of a run. Errors are listed
// separately from failures so tooling problems are not mistaken for
// analyzer regressions.
func WriteSummary(w io.Writer, s *schema.Summary) {
	fmt.Fprintln(w, "\n===== Summary =====")
	fmt.Fprintf(w, "Total files: %d\n", s.Total)
	fmt.Fprintf(w, "Created: %d\n", s.Created)
	fmt.Fprintf(w, "Passed: %d\n", s.Passed)
	fmt.Fprintf(w, "Failed: %d\n", s.Failed)
	fmt.Fprintf(w, "Errors: %d\n", s.Errors)
	for _, f := range s.FailedFiles {
		fmt.Fprintf(w, "  FAIL %s\n", f)
	}
	fmt.Fprintf(w, "Total time: %s\n", s.Elapsed.Round(10*time.Millisecond))
}
