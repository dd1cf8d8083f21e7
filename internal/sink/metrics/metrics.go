// Package metrics tracks sink activity for Prometheus exposition.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SinkMetrics tracks how many envelopes, raw lines, and batches the
// provider has written.
type SinkMetrics struct {
	mu sync.RWMutex

	messagesByFormat map[string]uint64
	rawLines         uint64
	renderFailures   uint64
	batches          uint64
	lastWrittenAt    time.Time

	messagesTotal *prometheus.CounterVec
	rawTotal      prometheus.Counter
	failuresTotal prometheus.Counter
	batchesTotal  prometheus.Counter
	batchSizeHist prometheus.Histogram

	registerer prometheus.Registerer
	registered bool
}

// Snapshot provides a point-in-time view of sink metrics.
type Snapshot struct {
	MessagesWritten  uint64            `json:"messages_written"`
	MessagesByFormat map[string]uint64 `json:"messages_by_format"`
	RawLines         uint64            `json:"raw_lines"`
	RenderFailures   uint64            `json:"render_failures"`
	Batches          uint64            `json:"batches"`
	LastWrittenAt    time.Time         `json:"last_written_at,omitempty"`
	CollectedAt      time.Time         `json:"collected_at"`
}

func newSinkCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "consolesink",
		Subsystem: "sink",
		Name:      name,
		Help:      help,
	})
}

// NewSinkMetrics creates a sink metrics collector. A nil registerer falls
// back to the default Prometheus registerer.
func NewSinkMetrics(registerer prometheus.Registerer) *SinkMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SinkMetrics{
		messagesByFormat: make(map[string]uint64),
		registerer:       registerer,
		messagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consolesink",
				Subsystem: "sink",
				Name:      "messages_total",
				Help:      "Total number of envelopes written to the console",
			},
			[]string{"format"},
		),
		rawTotal:      newSinkCounter("raw_lines_total", "Total number of unparseable lines passed through as raw text"),
		failuresTotal: newSinkCounter("render_failures_total", "Total number of envelopes that failed to render"),
		batchesTotal:  newSinkCounter("batches_total", "Total number of batches the provider accepted"),
		batchSizeHist: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "consolesink",
			Subsystem: "sink",
			Name:      "batch_size",
			Help:      "Number of envelopes per accepted batch",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (m *SinkMetrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.messagesTotal,
		m.rawTotal,
		m.failuresTotal,
		m.batchesTotal,
		m.batchSizeHist,
	}

	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

// RecordMessage records one envelope written in the given format.
func (m *SinkMetrics) RecordMessage(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messagesByFormat[format]++
	m.lastWrittenAt = time.Now()
	m.messagesTotal.WithLabelValues(format).Inc()
}

// RecordRawLine records one raw passthrough line.
func (m *SinkMetrics) RecordRawLine() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rawLines++
	m.lastWrittenAt = time.Now()
	m.rawTotal.Inc()
}

// RecordRenderFailure records an envelope that could not be rendered.
func (m *SinkMetrics) RecordRenderFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.renderFailures++
	m.failuresTotal.Inc()
}

// RecordBatch records an accepted batch and its size.
func (m *SinkMetrics) RecordBatch(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches++
	m.batchesTotal.Inc()
	m.batchSizeHist.Observe(float64(size))
}

// GetSnapshot returns a point-in-time snapshot of sink metrics.
func (m *SinkMetrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := Snapshot{
		MessagesByFormat: make(map[string]uint64, len(m.messagesByFormat)),
		RawLines:         m.rawLines,
		RenderFailures:   m.renderFailures,
		Batches:          m.batches,
		LastWrittenAt:    m.lastWrittenAt,
		CollectedAt:      time.Now(),
	}
	for format, count := range m.messagesByFormat {
		snapshot.MessagesByFormat[format] = count
		snapshot.MessagesWritten += count
	}
	return snapshot
}

// Reset resets all metrics (useful for testing).
func (m *SinkMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messagesByFormat = make(map[string]uint64)
	m.rawLines = 0
	m.renderFailures = 0
	m.batches = 0
	m.lastWrittenAt = time.Time{}
	m.messagesTotal.Reset()
}
