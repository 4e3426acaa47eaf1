package reports

import (
	"encoding/json"
)

// FormatJSON formats a report as indented JSON.
func FormatJSON(report *ProgressReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
