// Package consolesink implements a console output provider plugin for a
// streaming-data orchestration platform. It reads a one-line JSON
// configuration followed by line-delimited JSON envelopes on stdin and
// renders each envelope to stdout in one of four formats: structured
// (bordered multi-line block, the default), compact (one timestamped line),
// json (indented envelope blob), or simple (one "Message #n" line). Status
// and diagnostic lines go to stderr and never mix with the data stream.
//
// The provider exposes two host-facing capabilities: Config, returning the
// bound configuration, and WriteBatch, accepting a batch of envelopes plus
// a context. Cancellation is observed between envelopes of a batch;
// envelopes remaining after cancellation are skipped without error. The
// Runner self-hosts the provider over stdin for standalone use, while the
// host package adapts any Watermill subscriber onto the same contract for
// platform-managed deployments.
//
// # Input contract
//
// The first non-empty input line is the configuration object; a missing or
// unparseable configuration ends the run before any envelope is processed.
// Every subsequent line is parsed as an envelope with source, type, data,
// and metadata fields. Lines that fail envelope parsing are passed through
// to stdout as timestamped [Raw] lines, never dropped. Metadata keys render
// in the order the producer wrote them.
//
// # Handshake
//
// Invoked with the handshake argument, the binary emits a single JSON line
// carrying the protocol version and magic cookie pair, then exits. The
// supervising host uses the reply to verify compatibility before starting
// the real session.
package consolesink
