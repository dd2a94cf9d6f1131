package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/vidrecover/internal/ports"
)

// DefaultDoneMarker is the file whose creation ends a watched stream.
const DefaultDoneMarker = "DONE"

// WatchConfig configures the watch source.
type WatchConfig struct {
	Dir        string
	DoneMarker string
}

// Watch streams image files as they are dropped into a directory, for
// example by a capture process, until the done marker file appears. A file's
// frame index is fixed when it is first seen, so indices follow arrival
// order. A file that does not decode yet (still being written) holds back
// every later frame until a write event or the final scan completes it.
type Watch struct {
	cfg    WatchConfig
	logger ports.Logger

	index   map[string]int
	queue   []string
	next    int
	pending map[string]error
}

// NewWatch creates a watch source.
func NewWatch(cfg WatchConfig, logger ports.Logger) *Watch {
	if cfg.DoneMarker == "" {
		cfg.DoneMarker = DefaultDoneMarker
	}
	return &Watch{cfg: cfg, logger: logger}
}

// Name implements ports.FrameSource.
func (w *Watch) Name() string { return "watch" }

// Stream implements ports.FrameSource.
func (w *Watch) Stream(ctx context.Context, h ports.FrameHandler) error {
	w.index = map[string]int{}
	w.queue = nil
	w.next = 0
	w.pending = map[string]error{}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// watch before listing so no file falls between the two
	if err := watcher.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	w.logger.Info("watching for frames",
		ports.String("dir", w.cfg.Dir),
		ports.String("done_marker", w.cfg.DoneMarker),
	)

	if err := w.scan(h); err != nil {
		return err
	}
	if w.done() {
		return w.finish(h)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if name == w.cfg.DoneMarker {
				return w.finish(h)
			}
			if isImage(name) {
				w.discover(name)
				w.drain(h)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}

func (w *Watch) done() bool {
	_, err := os.Stat(filepath.Join(w.cfg.Dir, w.cfg.DoneMarker))
	return err == nil
}

// scan queues every image already in the directory, in name order, and
// emits what it can.
func (w *Watch) scan(h ports.FrameHandler) error {
	files, err := listImages(w.cfg.Dir)
	if err != nil {
		return err
	}
	for _, name := range files {
		w.discover(name)
	}
	w.drain(h)
	return nil
}

// discover reserves the next frame index for name.
func (w *Watch) discover(name string) {
	if _, ok := w.index[name]; ok {
		return
	}
	w.index[name] = len(w.queue)
	w.queue = append(w.queue, name)
}

// drain emits queued frames in index order, stopping at the first file that
// does not decode.
func (w *Watch) drain(h ports.FrameHandler) {
	for w.next < len(w.queue) {
		name := w.queue[w.next]
		frame, err := decodeImageFile(filepath.Join(w.cfg.Dir, name), w.next)
		if err != nil {
			if _, held := w.pending[name]; !held && w.next+1 < len(w.queue) {
				w.logger.Debug("frame incomplete, holding later frames",
					ports.Int("frame", w.next), ports.String("file", name))
			}
			w.pending[name] = err
			return
		}
		delete(w.pending, name)
		w.logger.Debug("frame arrived", ports.Int("frame", w.next), ports.String("file", name))
		h.OnFrame(frame)
		w.next++
	}
}

// finish picks up stragglers and fails if any queued file was never emitted.
func (w *Watch) finish(h ports.FrameHandler) error {
	if err := w.scan(h); err != nil {
		return err
	}
	if w.next == len(w.queue) {
		return nil
	}

	name := w.queue[w.next]
	return fmt.Errorf("%d frame files never decoded, first %s: %w", len(w.queue)-w.next, name, w.pending[name])
}
