// Package export writes analytics reports to CSV and JSON files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MIkhsanPasaribu/studyhub/internal/report"
)

// Formats lists the supported export formats.
var Formats = []string{"csv", "json"}

// Write exports rep into dir and returns the files it created. CSV produces
// a sessions file and a daily completion file; JSON produces one document.
func Write(rep *report.Report, format, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	stamp := rep.GeneratedAt.Format("20060102-150405")
	base := fmt.Sprintf("studyhub-%s-%s", rep.Range, stamp)

	switch strings.ToLower(format) {
	case "csv":
		sessions := filepath.Join(dir, base+"-sessions.csv")
		if err := SessionsToCSV(rep.Sessions, sessions); err != nil {
			return nil, err
		}
		completion := filepath.Join(dir, base+"-completion.csv")
		if err := CompletionToCSV(rep.Completion, completion); err != nil {
			return nil, err
		}
		return []string{sessions, completion}, nil
	case "json":
		path := filepath.Join(dir, base+".json")
		if err := ToJSON(rep, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q: must be csv or json", format)
}
