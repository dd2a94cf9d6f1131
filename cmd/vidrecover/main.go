package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/vidrecover/internal/adapters/fs"
	"github.com/bft-labs/vidrecover/internal/adapters/kernel"
	logAdapter "github.com/bft-labs/vidrecover/internal/adapters/log"
	"github.com/bft-labs/vidrecover/internal/adapters/metrics"
	"github.com/bft-labs/vidrecover/internal/adapters/source"
	"github.com/bft-labs/vidrecover/internal/app"
	"github.com/bft-labs/vidrecover/internal/cliconfig"
	"github.com/bft-labs/vidrecover/internal/ports"
)

const helpDescription = `
Recover a binary payload that was visually encoded into the frames of a video.

Each frame is cut into 48x48 tiles, every tile is classified to one byte, and
the per-frame packets are reassembled in frame order into the output file.

Inputs:
  - a video file or URL (decoded through ffmpeg/ffprobe)
  - a directory of frame images (png, jpg, gif), read in name order
  - a directory being filled by another process (--source watch); the run
    ends when the done marker file appears
`

var exampleUsage = strings.TrimSpace(`
  vidrecover clip.mp4 -o payload.bin
  vidrecover ./frames --report run.json --metrics-file vidrecover.prom
  vidrecover --source watch --done-marker DONE ./incoming -o -
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "vidrecover [flags] <input>",
		Short:         "Recover a binary payload encoded in video frames",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) == 1 {
				cfg.Input = args[0]
				changed["input"] = true
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyFileConfig(&cfg, fc, changed)
			}

			// Environment overrides the file, flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			runLog, err := cliconfig.NewLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			log = runLog
			log.Debug().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.vidrecover/config.toml)")
	root.Flags().StringVar(&cfg.Source, "source", cfg.Source, "frame source: auto, dir, watch or ffmpeg")
	root.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "output file for the recovered payload (- for stdout)")
	root.Flags().StringVar(&cfg.Report, "report", cfg.Report, "write a JSON run report to this path")
	root.Flags().StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics in textfile format to this path")

	root.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "frames classified at once (kernel capacity)")
	root.Flags().StringVar(&cfg.SentinelPolicy, "sentinel-policy", cfg.SentinelPolicy, "unmatched tiles: fail the frame or treat as zero")
	root.Flags().StringVar(&cfg.DoneMarker, "done-marker", cfg.DoneMarker, "file name that ends a watch run")

	root.Flags().StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary (-fps_mode from 5.1, -vsync before)")
	root.Flags().StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "ffprobe binary")

	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")
	root.Flags().BoolVar(&cfg.Meta, "meta", cfg.Meta, "log every packet header (debug)")

	if err := root.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Msg("interrupted, no output written")
			os.Exit(130)
		}
		log.Error().Err(err).Msg("vidrecover")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliconfig.Config, log zerolog.Logger) error {
	logger := logAdapter.NewZerologAdapter(log)

	policy, err := app.ParseSentinelPolicy(cfg.SentinelPolicy)
	if err != nil {
		return err
	}

	src := buildSource(cfg, logger)
	cpu := kernel.NewCPU(kernel.CPUConfig{Capacity: cfg.Workers, RowWorkers: cfg.Workers})
	collector := metrics.NewCollector()

	var report ports.ReportSink
	if cfg.Report != "" {
		report = fs.NewReportFile(cfg.Report)
	}

	out := fs.NewOutputFile(cfg.Output)
	dec := app.NewDecoder(app.DecoderConfig{
		SentinelPolicy: policy,
		Meta:           cfg.Meta,
		Input:          cfg.Input,
	}, src, cpu, out, report, logger, collector)

	_, decErr := dec.Decode(ctx)

	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error().Err(err).Str("path", cfg.MetricsFile).Msg("failed to write metrics")
		}
	}
	if decErr != nil {
		return decErr
	}
	log.Info().Str("output", out.Path()).Msg("payload recovered")
	return nil
}

func buildSource(cfg cliconfig.Config, logger ports.Logger) ports.FrameSource {
	switch cfg.Source {
	case cliconfig.SourceDir:
		return source.NewDir(cfg.Input, logger)
	case cliconfig.SourceWatch:
		return source.NewWatch(source.WatchConfig{Dir: cfg.Input, DoneMarker: cfg.DoneMarker}, logger)
	default:
		return source.NewFFmpeg(source.FFmpegConfig{
			Input:       cfg.Input,
			FFmpegPath:  cfg.FFmpegPath,
			FFprobePath: cfg.FFprobePath,
		}, logger)
	}
}
