package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamweld/consolesink/internal/sink/envelope"
	"github.com/streamweld/consolesink/internal/sink/jsoncodec"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 9, 12, 30, 45, 0, time.UTC)
}

const fixedTimestamp = "2025-03-09 12:30:45 UTC"

func testEnvelope(t *testing.T, line string) *envelope.Envelope {
	t.Helper()
	env, err := envelope.ParseLine([]byte(line))
	require.NoError(t, err)
	return env
}

func TestRenderCompact(t *testing.T) {
	r := NewRenderer(Compact, WithClock(fixedClock))
	env := testEnvelope(t, `{"source":"counter","type":"tick","data":{"value":42}}`)

	lines, err := r.Render(env, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "["+fixedTimestamp+"] [counter] {\"value\":42}", lines[0])
}

func TestRenderSimple(t *testing.T) {
	r := NewRenderer(Simple, WithClock(fixedClock))

	t.Run("string payload verbatim", func(t *testing.T) {
		env := testEnvelope(t, `{"source":"s","data":"hello world"}`)
		lines, err := r.Render(env, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"Message #3: hello world"}, lines)
	})

	t.Run("structured payload uses JSON text", func(t *testing.T) {
		env := testEnvelope(t, `{"data":{"a":[1,2]}}`)
		lines, err := r.Render(env, 7)
		require.NoError(t, err)
		assert.Equal(t, []string{`Message #7: {"a":[1,2]}`}, lines)
	})

	t.Run("null payload renders literal null", func(t *testing.T) {
		env := testEnvelope(t, `{"source":"s"}`)
		lines, err := r.Render(env, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Message #1: null"}, lines)
	})
}

func TestRenderStructured(t *testing.T) {
	r := NewRenderer(Structured, WithClock(fixedClock))

	t.Run("with metadata", func(t *testing.T) {
		env := testEnvelope(t, `{"source":"counter","type":"tick","data":{"value":42},"metadata":{"seq":1,"origin":"test"}}`)
		lines, err := r.Render(env, 3)
		require.NoError(t, err)

		expected := []string{
			"========== Message #3 ==========",
			"Timestamp: " + fixedTimestamp,
			"Source:    counter",
			"Type:      tick",
			"Data:      {\"value\":42}",
			"Metadata:",
			"  seq: 1",
			"  origin: test",
			strings.Repeat("=", len("========== Message #3 ==========")),
		}
		assert.Equal(t, expected, lines)
	})

	t.Run("empty metadata omits section", func(t *testing.T) {
		env := testEnvelope(t, `{"source":"s","type":"t","data":1}`)
		lines, err := r.Render(env, 1)
		require.NoError(t, err)

		for _, line := range lines {
			assert.NotContains(t, line, "Metadata")
		}
		require.Len(t, lines, 6)
	})

	t.Run("metadata keys render once in insertion order", func(t *testing.T) {
		env := testEnvelope(t, `{"data":1,"metadata":{"z":1,"a":2,"m":3}}`)
		lines, err := r.Render(env, 1)
		require.NoError(t, err)

		var keys []string
		for _, line := range lines {
			if strings.HasPrefix(line, "  ") {
				keys = append(keys, strings.SplitN(strings.TrimSpace(line), ":", 2)[0])
			}
		}
		assert.Equal(t, []string{"z", "a", "m"}, keys)
	})
}

func TestRenderJSON(t *testing.T) {
	r := NewRenderer(JSON, WithClock(fixedClock))
	env := testEnvelope(t, `{"source":"counter","type":"tick","data":{"value":42},"metadata":{"seq":1}}`)

	lines, err := r.Render(env, 1)
	require.NoError(t, err)
	assert.Greater(t, len(lines), 1, "json mode should be indented over multiple lines")

	blob := strings.Join(lines, "\n")
	var decoded struct {
		Source   string          `json:"source"`
		Type     string          `json:"type"`
		Data     json.RawMessage `json:"data"`
		Metadata map[string]int  `json:"metadata"`
	}
	require.NoError(t, jsoncodec.Unmarshal([]byte(blob), &decoded))

	assert.Equal(t, "counter", decoded.Source)
	assert.Equal(t, "tick", decoded.Type)
	assert.Equal(t, map[string]int{"seq": 1}, decoded.Metadata)

	var payload map[string]int
	require.NoError(t, jsoncodec.Unmarshal(decoded.Data, &payload))
	assert.Equal(t, map[string]int{"value": 42}, payload)
}

func TestRenderIdempotent(t *testing.T) {
	r := NewRenderer(Structured, WithClock(fixedClock))
	env := testEnvelope(t, `{"source":"s","type":"t","data":{"n":1.50},"metadata":{"k":"v"}}`)

	first, err := r.Render(env, 5)
	require.NoError(t, err)
	second, err := r.Render(env, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderDoesNotMutateEnvelope(t *testing.T) {
	r := NewRenderer(JSON, WithClock(fixedClock))
	env := testEnvelope(t, `{"source":"s","data":{"n":1}}`)
	before := string(env.Payload)

	_, err := r.Render(env, 1)
	require.NoError(t, err)
	assert.Equal(t, before, string(env.Payload))
}

func TestRenderRaw(t *testing.T) {
	r := NewRenderer(Compact, WithClock(fixedClock))
	line := r.RenderRaw("not json at all")
	assert.Equal(t, "["+fixedTimestamp+"] [Raw] not json at all", line)
}

func TestNewRendererNormalizesFormat(t *testing.T) {
	r := NewRenderer(Format("COMPACT"))
	assert.Equal(t, Compact, r.Format())

	r = NewRenderer(Format("bogus"))
	assert.Equal(t, Default, r.Format())
}
