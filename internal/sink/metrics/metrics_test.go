package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *SinkMetrics {
	t.Helper()
	m := NewSinkMetrics(prometheus.NewRegistry())
	require.NoError(t, m.Register())
	return m
}

func TestRegisterIsIdempotent(t *testing.T) {
	m := NewSinkMetrics(prometheus.NewRegistry())
	require.NoError(t, m.Register())
	require.NoError(t, m.Register())
}

func TestSnapshotCounts(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordMessage("compact")
	m.RecordMessage("compact")
	m.RecordMessage("json")
	m.RecordRawLine()
	m.RecordRenderFailure()
	m.RecordBatch(3)
	m.RecordBatch(1)

	snap := m.GetSnapshot()
	assert.Equal(t, uint64(3), snap.MessagesWritten)
	assert.Equal(t, uint64(2), snap.MessagesByFormat["compact"])
	assert.Equal(t, uint64(1), snap.MessagesByFormat["json"])
	assert.Equal(t, uint64(1), snap.RawLines)
	assert.Equal(t, uint64(1), snap.RenderFailures)
	assert.Equal(t, uint64(2), snap.Batches)
	assert.False(t, snap.LastWrittenAt.IsZero())
	assert.False(t, snap.CollectedAt.IsZero())
}

func TestReset(t *testing.T) {
	m := newTestMetrics(t)
	m.RecordMessage("simple")
	m.RecordRawLine()

	m.Reset()

	snap := m.GetSnapshot()
	assert.Zero(t, snap.MessagesWritten)
	assert.Zero(t, snap.RawLines)
	assert.True(t, snap.LastWrittenAt.IsZero())
}
