package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one metadata entry. Values stay raw so nested structures and
// exact number text survive a round trip.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Metadata carries the headers attached to an envelope. Entries keep their
// insertion order; the order only matters for display.
type Metadata []Field

// Get returns the value for key and whether it is present.
func (m Metadata) Get(key string) (json.RawMessage, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// With returns a copy of the metadata with key set, appending when absent.
func (m Metadata) With(key string, value json.RawMessage) Metadata {
	cloned := make(Metadata, len(m), len(m)+1)
	copy(cloned, m)
	for i, f := range cloned {
		if f.Key == key {
			cloned[i].Value = value
			return cloned
		}
	}
	return append(cloned, Field{Key: key, Value: value})
}

// UnmarshalJSON decodes a JSON object preserving key order. The stdlib
// token decoder is used here on purpose: map-based decoding would lose the
// order the producer wrote the keys in.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata must be a JSON object, got %v", tok)
	}

	var fields Metadata
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("metadata key must be a string, got %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		fields = append(fields, Field{Key: key, Value: value})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = fields
	return nil
}

// MarshalJSON encodes the metadata as a JSON object in insertion order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
