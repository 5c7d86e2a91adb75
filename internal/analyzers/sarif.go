package analyzers

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

// Minimal SARIF shape: the harness extracts only file and line per
// result and discards severity, message and rule id.
type sarifLog struct {
	Runs []sarifRun `json:"runs"`
}

type sarifRun struct {
	Results []sarifResult `json:"results"`
}

type sarifResult struct {
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// ExtractLocations flattens a SARIF document into basename:line entries.
// Duplicates collapse to their first occurrence; the tool's own emission
// order is preserved, the harness does not re-sort.
func ExtractLocations(data []byte) (schema.LocationList, error) {
	var log sarifLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToolOutput, err)
	}

	seen := make(map[string]bool)
	list := schema.LocationList{}
	for _, run := range log.Runs {
		for _, res := range run.Results {
			for _, loc := range res.Locations {
				phys := loc.PhysicalLocation
				uri := phys.ArtifactLocation.URI
				if uri == "" {
					uri = phys.ArtifactLocation.URIBaseID
				}
				base := filepath.Base(uri)
				if base == "" || base == "." || phys.Region.StartLine <= 0 {
					continue
				}
				entry := fmt.Sprintf("%s:%d", base, phys.Region.StartLine)
				if seen[entry] {
					continue
				}
				seen[entry] = true
				list = append(list, entry)
			}
		}
	}
	return list, nil
}
