// Package metrics exposes decode progress as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/vidrecover/internal/domain"
)

const namespace = "vidrecover"

// Collector implements app.EventEmitter with Prometheus metrics on its own
// registry.
type Collector struct {
	registry *prometheus.Registry

	expectedFrames   prometheus.Gauge
	framesClassified prometheus.Counter
	tilesClassified  prometheus.Counter
	classifySeconds  prometheus.Histogram
	packets          *prometheus.CounterVec
	outputBytes      prometheus.Gauge
}

// NewCollector creates and registers the decode metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		expectedFrames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expected_frames",
			Help:      "Frame count announced by the frame source, 0 if unknown.",
		}),
		framesClassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_classified_total",
			Help:      "Frames whose tiles were classified.",
		}),
		tilesClassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiles_classified_total",
			Help:      "Tiles classified across all frames.",
		}),
		classifySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Time to classify one frame, including waiting for kernel capacity.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		packets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Packets seen by reassembly, by outcome.",
		}, []string{"outcome"}),
		outputBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_bytes",
			Help:      "Size of the reassembled output.",
		}),
	}

	c.registry.MustRegister(
		c.expectedFrames,
		c.framesClassified,
		c.tilesClassified,
		c.classifySeconds,
		c.packets,
		c.outputBytes,
	)
	for _, o := range []domain.PacketOutcome{
		domain.OutcomeAccepted, domain.OutcomeDuplicate, domain.OutcomeMismatch, domain.OutcomeMalformed,
	} {
		c.packets.WithLabelValues(o.String())
	}
	return c
}

// OnStreamInfo records the frame count announced by the source.
func (c *Collector) OnStreamInfo(info domain.StreamInfo) {
	c.expectedFrames.Set(float64(info.TotalFrames))
}

// OnFrameClassified counts a classified frame and its tiles and observes
// how long it took.
func (c *Collector) OnFrameClassified(_ int, numTiles int, d time.Duration) {
	c.framesClassified.Inc()
	c.tilesClassified.Add(float64(numTiles))
	c.classifySeconds.Observe(d.Seconds())
}

// OnPacket counts a packet under its reassembly outcome.
func (c *Collector) OnPacket(_ int, outcome domain.PacketOutcome) {
	c.packets.WithLabelValues(outcome.String()).Inc()
}

// OnOutput records the size of the reassembled output.
func (c *Collector) OnOutput(bytes int) {
	c.outputBytes.Set(float64(bytes))
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
