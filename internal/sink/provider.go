// Package sink hosts the console output provider: the batch-write
// contract an orchestration host calls into, and the stdio driver that
// self-hosts it over line-delimited input.
package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/streamweld/consolesink/internal/sink/config"
	"github.com/streamweld/consolesink/internal/sink/console"
	"github.com/streamweld/consolesink/internal/sink/envelope"
	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
	"github.com/streamweld/consolesink/internal/sink/format"
	"github.com/streamweld/consolesink/internal/sink/logging"
	"github.com/streamweld/consolesink/internal/sink/metrics"
)

// Configurable is the configuration capability of an output provider.
type Configurable interface {
	Config() *config.Config
}

// BatchWriter is the write capability of an output provider. A host hands
// over a batch of envelopes; cancellation is observed between envelopes,
// and envelopes remaining after cancellation are skipped without error.
type BatchWriter interface {
	WriteBatch(ctx context.Context, batch []*envelope.Envelope) error
}

// Provider renders envelopes to the console sink. It implements both host
// capabilities and carries the run's message counter, so rendering stays a
// pure function of (envelope, count, format).
type Provider struct {
	cfg      *config.Config
	renderer *format.Renderer
	out      *console.Sink
	logger   logging.ServiceLogger
	metrics  *metrics.SinkMetrics

	count int
}

// ProviderOption customizes a Provider.
type ProviderOption func(*Provider)

// WithMetrics attaches a metrics collector to the provider.
func WithMetrics(m *metrics.SinkMetrics) ProviderOption {
	return func(p *Provider) { p.metrics = m }
}

// WithRendererOptions forwards options to the renderer, e.g. a fixed clock.
func WithRendererOptions(opts ...format.RendererOption) ProviderOption {
	return func(p *Provider) {
		p.renderer = format.NewRenderer(p.cfg.Format(), opts...)
	}
}

// NewProvider binds a configuration to an output writer.
func NewProvider(cfg *config.Config, out io.Writer, logger logging.ServiceLogger, opts ...ProviderOption) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errspkg.ErrOutputRequired
	}
	if logger == nil {
		return nil, errspkg.ErrLoggerRequired
	}

	p := &Provider{
		cfg:      cfg,
		renderer: format.NewRenderer(cfg.Format()),
		out:      console.NewSink(out),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the active configuration.
func (p *Provider) Config() *config.Config { return p.cfg }

// Format returns the normalized output format in use.
func (p *Provider) Format() format.Format { return p.renderer.Format() }

// Written returns the current message count: envelopes plus raw lines.
func (p *Provider) Written() int { return p.count }

// WriteBatch renders and writes each envelope in order, flushing per
// envelope. Cancellation is checked between envelopes; once the context is
// done the remaining envelopes are skipped and the batch still returns nil,
// since a cancelled host is not a write failure. Render faults are logged
// and skipped; only sink write failures abort the batch.
func (p *Provider) WriteBatch(ctx context.Context, batch []*envelope.Envelope) error {
	if p.metrics != nil {
		p.metrics.RecordBatch(len(batch))
	}

	for i, env := range batch {
		if ctx.Err() != nil {
			p.logger.Debug("batch cancelled, skipping remaining envelopes", logging.LogFields{
				"written": i,
				"skipped": len(batch) - i,
			})
			return nil
		}
		if err := p.writeEnvelope(env); err != nil {
			return err
		}
	}
	return nil
}

// WriteRaw passes one unparseable input line through to the sink, tagged
// and timestamped. The line still advances the message counter.
func (p *Provider) WriteRaw(line string) error {
	p.count++
	if err := p.out.WriteLines(p.renderer.RenderRaw(line)); err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.RecordRawLine()
	}
	return nil
}

func (p *Provider) writeEnvelope(env *envelope.Envelope) error {
	p.count++

	lines, err := p.renderer.Render(env, p.count)
	if err != nil {
		p.logger.Error("failed to render envelope", err, logging.LogFields{
			"message": p.count,
			"source":  env.Source,
		})
		if p.metrics != nil {
			p.metrics.RecordRenderFailure()
		}
		return nil
	}

	if err := p.out.WriteLines(lines...); err != nil {
		return fmt.Errorf("message %d: %w", p.count, err)
	}
	if p.metrics != nil {
		p.metrics.RecordMessage(string(p.renderer.Format()))
	}
	return nil
}
