package fs

import (
	"context"
	"io"
	"os"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

// OutputFile implements ports.OutputSink for a file path or stdout.
type OutputFile struct {
	path   string
	stdout io.Writer
}

// NewOutputFile creates a sink writing to path, or to stdout for "-".
func NewOutputFile(path string) *OutputFile {
	return &OutputFile{path: path, stdout: os.Stdout}
}

// Write stores data atomically.
func (o *OutputFile) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.path == StdoutPath {
		_, err := o.stdout.Write(data)
		return err
	}
	return writeAtomic(o.path, data, 0o644)
}

// Path returns the destination path.
func (o *OutputFile) Path() string {
	return o.path
}
