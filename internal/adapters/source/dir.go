package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// Dir streams the image files of a directory in lexical name order, the
// order ffmpeg's image2 muxer writes frame_%04d.png sequences in.
type Dir struct {
	path   string
	logger ports.Logger
}

// NewDir creates a directory source.
func NewDir(path string, logger ports.Logger) *Dir {
	return &Dir{path: path, logger: logger}
}

// Name implements ports.FrameSource.
func (d *Dir) Name() string { return "dir" }

// Stream implements ports.FrameSource.
func (d *Dir) Stream(ctx context.Context, h ports.FrameHandler) error {
	files, err := listImages(d.path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no image files in %s", d.path)
	}

	h.OnConfig(domain.StreamInfo{TotalFrames: len(files)})

	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := decodeImageFile(filepath.Join(d.path, name), i)
		if err != nil {
			return err
		}
		d.logger.Debug("frame decoded",
			ports.Int("frame", i),
			ports.String("file", name),
			ports.Int("width", frame.Width),
			ports.Int("height", frame.Height),
		)
		h.OnFrame(frame)
	}
	return nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && isImage(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
