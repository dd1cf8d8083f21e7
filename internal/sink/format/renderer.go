package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/streamweld/consolesink/internal/sink/envelope"
	"github.com/streamweld/consolesink/internal/sink/jsoncodec"
)

const timestampLayout = "2006-01-02 15:04:05"

// Renderer turns envelopes into output lines for one format. Given a fixed
// clock its output is deterministic, which is how the tests pin it down.
type Renderer struct {
	format Format
	now    func() time.Time
}

// RendererOption customizes a Renderer.
type RendererOption func(*Renderer)

// WithClock overrides the wall clock used for timestamp fields.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRenderer builds a Renderer for the given format.
func NewRenderer(f Format, opts ...RendererOption) *Renderer {
	r := &Renderer{
		format: ParseFormat(string(f)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the active format.
func (r *Renderer) Format() Format { return r.format }

// Render produces the output lines for one envelope. n is the one-based
// message count supplied by the caller; the envelope is never mutated.
func (r *Renderer) Render(env *envelope.Envelope, n int) ([]string, error) {
	switch r.format {
	case Compact:
		return []string{fmt.Sprintf("[%s] [%s] %s", r.timestamp(), env.Source, env.PayloadText())}, nil
	case JSON:
		blob, err := jsoncodec.MarshalIndent(env, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal envelope: %w", err)
		}
		return strings.Split(string(blob), "\n"), nil
	case Simple:
		return []string{fmt.Sprintf("Message #%d: %s", n, env.PayloadText())}, nil
	default:
		return r.renderStructured(env, n), nil
	}
}

// RenderRaw produces the passthrough line for input that failed envelope
// parsing. The original text is carried unchanged.
func (r *Renderer) RenderRaw(line string) string {
	return fmt.Sprintf("[%s] [Raw] %s", r.timestamp(), line)
}

func (r *Renderer) renderStructured(env *envelope.Envelope, n int) []string {
	header := fmt.Sprintf("========== Message #%d ==========", n)

	lines := []string{
		header,
		"Timestamp: " + r.timestamp(),
		"Source:    " + env.Source,
		"Type:      " + env.Type,
		"Data:      " + env.PayloadText(),
	}

	if len(env.Metadata) > 0 {
		lines = append(lines, "Metadata:")
		for _, f := range env.Metadata {
			lines = append(lines, "  "+f.Key+": "+envelope.ValueText(f.Value))
		}
	}

	return append(lines, strings.Repeat("=", len(header)))
}

func (r *Renderer) timestamp() string {
	return r.now().UTC().Format(timestampLayout) + " UTC"
}
