// Package envelope defines the unit of streamed data handed to the
// provider and the line-level parsing that separates envelopes from raw
// passthrough text.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
	"github.com/streamweld/consolesink/internal/sink/jsoncodec"
)

// Envelope is one unit of streamed data. Source and Type may be empty; the
// payload is kept raw so its structure and number text round-trip unchanged.
type Envelope struct {
	Source   string          `json:"source,omitempty"`
	Type     string          `json:"type,omitempty"`
	Payload  json.RawMessage `json:"data,omitempty"`
	Metadata Metadata        `json:"metadata,omitempty"`
}

// envelopeWire mirrors Envelope on the wire. Producers emit the payload
// under "data"; "payload" is accepted as an input alias.
type envelopeWire struct {
	Source   string          `json:"source"`
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	Payload  json.RawMessage `json:"payload"`
	Metadata Metadata        `json:"metadata"`
}

// UnmarshalJSON decodes an envelope, honoring the payload key alias.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var wire envelopeWire
	if err := jsoncodec.Unmarshal(data, &wire); err != nil {
		return err
	}

	e.Source = wire.Source
	e.Type = wire.Type
	e.Metadata = wire.Metadata
	e.Payload = wire.Data
	if len(e.Payload) == 0 {
		e.Payload = wire.Payload
	}
	return nil
}

// ParseLine classifies one input line. It returns the parsed envelope, or
// an error wrapping ErrNotEnvelope when the line should be passed through
// as raw text instead. Only JSON objects qualify as envelopes.
func ParseLine(line []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errspkg.ErrNotEnvelope
	}

	var env Envelope
	if err := env.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrNotEnvelope, err)
	}
	return &env, nil
}

// PayloadText renders the payload for the single-line formats. String
// payloads are used verbatim; every other value keeps its compact JSON
// text; an absent payload renders as the literal null.
func (e *Envelope) PayloadText() string {
	return ValueText(e.Payload)
}

// ValueText renders any raw JSON value the same way PayloadText does. The
// compaction operates on the original bytes so number text is preserved
// exactly rather than re-parsed through a float.
func ValueText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "null"
	}

	if trimmed[0] == '"' {
		var s string
		if err := jsoncodec.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
