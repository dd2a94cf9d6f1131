package fs

import (
	"context"
	"encoding/json"
	"os"

	"github.com/bft-labs/vidrecover/internal/domain"
)

// ReportFile implements ports.ReportSink using a JSON file.
type ReportFile struct {
	path string
}

// NewReportFile creates a report sink writing to path.
func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

// Save persists the report atomically.
func (r *ReportFile) Save(ctx context.Context, report domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(r.path, append(data, '\n'), 0o644)
}

// load reads a previously saved report.
func (r *ReportFile) load(ctx context.Context) (domain.Report, error) {
	var report domain.Report
	data, err := os.ReadFile(r.path)
	if err != nil {
		return report, err
	}
	err = json.Unmarshal(data, &report)
	return report, err
}

// Path returns the full path to the report file.
func (r *ReportFile) Path() string {
	return r.path
}
