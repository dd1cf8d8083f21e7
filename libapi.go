package consolesink

import (
	sinkpkg "github.com/streamweld/consolesink/internal/sink"
	configpkg "github.com/streamweld/consolesink/internal/sink/config"
	envelopepkg "github.com/streamweld/consolesink/internal/sink/envelope"
	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
	formatpkg "github.com/streamweld/consolesink/internal/sink/format"
	idspkg "github.com/streamweld/consolesink/internal/sink/ids"
	loggingpkg "github.com/streamweld/consolesink/internal/sink/logging"
	metricspkg "github.com/streamweld/consolesink/internal/sink/metrics"
)

type (
	Config   = configpkg.Config
	Envelope = envelopepkg.Envelope
	Metadata = envelopepkg.Metadata
	Field    = envelopepkg.Field

	Format         = formatpkg.Format
	Renderer       = formatpkg.Renderer
	RendererOption = formatpkg.RendererOption

	Provider       = sinkpkg.Provider
	ProviderOption = sinkpkg.ProviderOption
	Configurable   = sinkpkg.Configurable
	BatchWriter    = sinkpkg.BatchWriter
	Runner         = sinkpkg.Runner
	HandshakeReply = sinkpkg.HandshakeReply

	SinkMetrics     = metricspkg.SinkMetrics
	MetricsSnapshot = metricspkg.Snapshot

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger
)

const (
	FormatStructured = formatpkg.Structured
	FormatCompact    = formatpkg.Compact
	FormatJSON       = formatpkg.JSON
	FormatSimple     = formatpkg.Simple
	DefaultFormat    = formatpkg.Default

	ProtocolVersion  = sinkpkg.ProtocolVersion
	MagicCookieKey   = sinkpkg.MagicCookieKey
	MagicCookieValue = sinkpkg.MagicCookieValue
)

var (
	ParseConfig   = configpkg.Parse
	ParseEnvelope = envelopepkg.ParseLine
	ParseFormat   = formatpkg.ParseFormat
	Formats       = formatpkg.Formats

	NewRenderer = formatpkg.NewRenderer
	WithClock   = formatpkg.WithClock

	NewProvider         = sinkpkg.NewProvider
	WithMetrics         = sinkpkg.WithMetrics
	WithRendererOptions = sinkpkg.WithRendererOptions
	NewRunner           = sinkpkg.NewRunner
	IsConfigError       = sinkpkg.IsConfigError

	NewHandshakeReply = sinkpkg.NewHandshakeReply
	WriteHandshake    = sinkpkg.WriteHandshake

	NewSinkMetrics = metricspkg.NewSinkMetrics
	NewRunID       = idspkg.NewRunID

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewTextServiceLogger      = loggingpkg.NewTextServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger
	NewWatermillAdapter       = loggingpkg.NewWatermillAdapter

	ErrNoConfig      = errspkg.ErrNoConfig
	ErrConfigInvalid = errspkg.ErrConfigInvalid
	ErrNotEnvelope   = errspkg.ErrNotEnvelope
	ErrSinkWrite     = errspkg.ErrSinkWrite
)
