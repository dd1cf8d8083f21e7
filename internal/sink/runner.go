package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/streamweld/consolesink/internal/sink/config"
	"github.com/streamweld/consolesink/internal/sink/envelope"
	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
	"github.com/streamweld/consolesink/internal/sink/logging"
)

// maxLineBytes bounds a single input line. Payloads are opaque, so the
// limit only exists to keep a runaway producer from exhausting memory.
const maxLineBytes = 1024 * 1024

// Runner is the stdio driver: it reads the configuration from the first
// input line, then feeds each subsequent line to the provider one at a
// time, in arrival order, with no overlap.
type Runner struct {
	in           io.Reader
	out          io.Writer
	logger       logging.ServiceLogger
	providerOpts []ProviderOption

	provider *Provider
}

// NewRunner wires the driver to its input and output streams.
func NewRunner(in io.Reader, out io.Writer, logger logging.ServiceLogger, providerOpts ...ProviderOption) (*Runner, error) {
	if in == nil {
		return nil, errspkg.ErrInputRequired
	}
	if out == nil {
		return nil, errspkg.ErrOutputRequired
	}
	if logger == nil {
		return nil, errspkg.ErrLoggerRequired
	}

	return &Runner{
		in:           in,
		out:          out,
		logger:       logger,
		providerOpts: providerOpts,
	}, nil
}

// Provider returns the provider bound during Run, or nil before a
// configuration line has been read.
func (r *Runner) Provider() *Provider { return r.provider }

// Run drives the read loop until end of input or context cancellation.
// A missing or unparseable configuration ends the run before any envelope
// is processed. Unparseable envelope lines are passed through as raw text;
// input is never silently dropped.
func (r *Runner) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	cfg, err := r.readConfig(scanner)
	if err != nil {
		return err
	}

	provider, err := NewProvider(cfg, r.out, r.logger, r.providerOpts...)
	if err != nil {
		return err
	}
	r.provider = provider
	r.logger.Info("configuration received", logging.LogFields{"config": cfg.String()})

	var envelopes, raw int
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		env, parseErr := envelope.ParseLine([]byte(line))
		if parseErr != nil {
			if writeErr := provider.WriteRaw(line); writeErr != nil {
				return writeErr
			}
			raw++
			r.logger.Debug("raw line passed through", logging.LogFields{"message": provider.Written()})
			continue
		}

		if writeErr := provider.WriteBatch(ctx, []*envelope.Envelope{env}); writeErr != nil {
			return writeErr
		}
		envelopes++
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return fmt.Errorf("reading input: %w", scanErr)
	}

	r.logger.Info("input stream complete", logging.LogFields{
		"lines":     envelopes + raw,
		"envelopes": envelopes,
		"raw":       raw,
	})
	return nil
}

// readConfig consumes lines until the first non-empty one and parses it as
// the run configuration. An empty stream is diagnosed as ErrNoConfig.
func (r *Runner) readConfig(scanner *bufio.Scanner) (*config.Config, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cfg, err := config.Parse([]byte(line))
		if err != nil {
			r.logger.Error("invalid configuration line", err, nil)
			return nil, err
		}
		return cfg, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	r.logger.Error("no configuration received", errspkg.ErrNoConfig, nil)
	return nil, errspkg.ErrNoConfig
}

// IsConfigError reports whether err is a configuration-missing or
// configuration-unparseable failure, the fatal-but-clean class.
func IsConfigError(err error) bool {
	return errors.Is(err, errspkg.ErrNoConfig) || errors.Is(err, errspkg.ErrConfigInvalid)
}
