package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// FFmpegConfig configures the ffmpeg source.
type FFmpegConfig struct {
	Input       string
	FFmpegPath  string
	FFprobePath string
}

// FFmpeg demuxes and decodes a video with ffmpeg and reads raw RGBA frames
// from its stdout. Stream geometry and frame count come from ffprobe.
type FFmpeg struct {
	cfg    FFmpegConfig
	logger ports.Logger

	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewFFmpeg creates an ffmpeg source.
func NewFFmpeg(cfg FFmpegConfig, logger ports.Logger) *FFmpeg {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	return &FFmpeg{cfg: cfg, logger: logger, command: exec.CommandContext}
}

// Name implements ports.FrameSource.
func (s *FFmpeg) Name() string { return "ffmpeg" }

type probeOutput struct {
	Streams []struct {
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		NbReadPackets string `json:"nb_read_packets"`
	} `json:"streams"`
}

// probe asks ffprobe for the first video stream's geometry and packet count.
func (s *FFmpeg) probe(ctx context.Context) (domain.StreamInfo, error) {
	var stderr bytes.Buffer
	cmd := s.command(ctx, s.cfg.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=width,height,nb_read_packets",
		"-of", "json",
		s.cfg.Input,
	)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return domain.StreamInfo{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var po probeOutput
	if err := json.Unmarshal(out, &po); err != nil {
		return domain.StreamInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(po.Streams) == 0 {
		return domain.StreamInfo{}, fmt.Errorf("no video stream in %s", s.cfg.Input)
	}

	st := po.Streams[0]
	info := domain.StreamInfo{Width: st.Width, Height: st.Height}
	if st.NbReadPackets != "" {
		if n, err := strconv.Atoi(st.NbReadPackets); err == nil {
			info.TotalFrames = n
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return domain.StreamInfo{}, fmt.Errorf("invalid video geometry %dx%d", info.Width, info.Height)
	}
	return info, nil
}

// errSyncOption reports an ffmpeg build that does not know the frame sync
// flag it was given.
var errSyncOption = errors.New("unrecognized frame sync option")

// Stream implements ports.FrameSource. Builds older than ffmpeg 5.1 lack
// -fps_mode and are rerun with -vsync.
func (s *FFmpeg) Stream(ctx context.Context, h ports.FrameHandler) error {
	info, err := s.probe(ctx)
	if err != nil {
		return err
	}
	h.OnConfig(info)

	n, err := s.decode(ctx, info, h, "-fps_mode")
	if errors.Is(err, errSyncOption) {
		s.logger.Debug("ffmpeg predates -fps_mode, using -vsync")
		n, err = s.decode(ctx, info, h, "-vsync")
	}
	if err != nil {
		return err
	}

	s.logger.Debug("ffmpeg finished", ports.Int("frames", n))
	return nil
}

// decode runs ffmpeg once and emits every frame it writes. It returns the
// number of frames emitted.
func (s *FFmpeg) decode(ctx context.Context, info domain.StreamInfo, h ports.FrameHandler, syncFlag string) (int, error) {
	var stderr bytes.Buffer
	cmd := s.command(ctx, s.cfg.FFmpegPath,
		"-v", "error",
		"-nostdin",
		"-i", s.cfg.Input,
		"-map", "0:v:0",
		syncFlag, "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	)
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, err
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start ffmpeg: %w", err)
	}

	frameSize := info.Width * info.Height * domain.BytesPerPixel
	index := 0
	var readErr error
	for {
		buf := make([]byte, frameSize)
		if _, err := io.ReadFull(stdout, buf); err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = fmt.Errorf("read frame %d: %w", index, err)
			}
			break
		}
		h.OnFrame(domain.Frame{Index: index, Width: info.Width, Height: info.Height, Pix: buf})
		index++
	}

	if readErr != nil {
		// unblock ffmpeg before waiting on it
		_, _ = io.Copy(io.Discard, stdout)
	}
	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if index == 0 && strings.Contains(msg, "Unrecognized option '"+strings.TrimPrefix(syncFlag, "-")+"'") {
			return 0, fmt.Errorf("%w %s: %s", errSyncOption, syncFlag, msg)
		}
		return index, fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}
	if readErr != nil {
		return index, readErr
	}
	return index, nil
}
