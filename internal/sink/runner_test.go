package sink

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
	"github.com/streamweld/consolesink/internal/sink/format"
	"github.com/streamweld/consolesink/internal/sink/jsoncodec"
	"github.com/streamweld/consolesink/internal/sink/logging"
)

func runStream(t *testing.T, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	r, err := NewRunner(strings.NewReader(input), &out, logging.Nop(), WithRendererOptions(format.WithClock(fixedClock)))
	require.NoError(t, err)
	runErr := r.Run(context.Background())
	return out.String(), runErr
}

func TestNewRunnerValidation(t *testing.T) {
	var out bytes.Buffer
	_, err := NewRunner(nil, &out, logging.Nop())
	assert.ErrorIs(t, err, errspkg.ErrInputRequired)

	_, err = NewRunner(strings.NewReader(""), nil, logging.Nop())
	assert.ErrorIs(t, err, errspkg.ErrOutputRequired)

	_, err = NewRunner(strings.NewReader(""), &out, nil)
	assert.ErrorIs(t, err, errspkg.ErrLoggerRequired)
}

func TestRunCompactStream(t *testing.T) {
	input := `{"outputFormat":"compact"}
{"source":"counter","type":"tick","data":{"value":42}}
`
	out, err := runStream(t, input)
	require.NoError(t, err)
	assert.Equal(t, "[2025-03-09 12:30:45 UTC] [counter] {\"value\":42}\n", out)
}

func TestRunJSONStream(t *testing.T) {
	input := `{"outputFormat":"json"}
{"source":"s","type":"t","data":{"v":1},"metadata":{"seq":1}}
`
	out, err := runStream(t, input)
	require.NoError(t, err)

	var decoded struct {
		Metadata map[string]int `json:"metadata"`
	}
	require.NoError(t, jsoncodec.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, map[string]int{"seq": 1}, decoded.Metadata)
}

func TestRunEmptyStream(t *testing.T) {
	out, err := runStream(t, "")
	assert.ErrorIs(t, err, errspkg.ErrNoConfig)
	assert.Empty(t, out, "no envelope may be processed without configuration")
}

func TestRunInvalidConfig(t *testing.T) {
	out, err := runStream(t, "not a config\n{\"data\":1}\n")
	assert.ErrorIs(t, err, errspkg.ErrConfigInvalid)
	assert.Empty(t, out)
}

func TestRunRawPassthrough(t *testing.T) {
	input := `{"outputFormat":"simple"}
{"data":"ok"}
this line is not JSON
{"data":"again"}
`
	out, err := runStream(t, input)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Message #1: ok", lines[0])
	assert.Equal(t, "[2025-03-09 12:30:45 UTC] [Raw] this line is not JSON", lines[1])
	assert.Equal(t, "Message #3: again", lines[2], "raw lines advance the counter too")
}

func TestRunSkipsBlankLines(t *testing.T) {
	input := "\n\n{\"outputFormat\":\"simple\"}\n\n{\"data\":\"x\"}\n\n"
	out, err := runStream(t, input)
	require.NoError(t, err)
	assert.Equal(t, "Message #1: x\n", out)
}

func TestRunCounterMonotonic(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"outputFormat":"simple"}` + "\n")
	for i := 0; i < 5; i++ {
		b.WriteString(`{"data":"v"}` + "\n")
	}

	out, err := runStream(t, b.String())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, "Message #"), line)
		assert.Contains(t, line, "#"+strconv.Itoa(i+1)+":")
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	input := "{\"outputFormat\":\"simple\"}\n{\"data\":\"x\"}\n"
	r, err := NewRunner(strings.NewReader(input), &out, logging.Nop())
	require.NoError(t, err)

	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
	assert.Empty(t, out.String())
}

func TestIsConfigError(t *testing.T) {
	assert.True(t, IsConfigError(errspkg.ErrNoConfig))
	assert.True(t, IsConfigError(errspkg.ErrConfigInvalid))
	assert.False(t, IsConfigError(errspkg.ErrSinkWrite))
	assert.False(t, IsConfigError(nil))
}
