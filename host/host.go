// Package host bridges an orchestration host's message stream to the
// console output provider. The host owns transport, framing, and process
// lifecycle; this package only adapts its deliveries onto the provider's
// batch-write contract. Any Watermill subscriber works, so the broker
// behind it is the caller's choice.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/streamweld/consolesink/internal/sink"
	"github.com/streamweld/consolesink/internal/sink/envelope"
	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
	"github.com/streamweld/consolesink/internal/sink/jsoncodec"
	"github.com/streamweld/consolesink/internal/sink/logging"
)

const tracerName = "consolesink/host"

// Serve consumes envelopes from sub on topic and writes them through the
// provider until the context is cancelled or the subscription closes.
// Each delivery carries either one envelope object or a JSON array batch.
// Every message is acked exactly once: there are no retries in this
// domain, and an undecodable payload is logged rather than redelivered.
func Serve(ctx context.Context, sub message.Subscriber, topic string, provider *sink.Provider, logger logging.ServiceLogger) error {
	if sub == nil {
		return errspkg.ErrInputRequired
	}
	if provider == nil {
		return errspkg.ErrConfigRequired
	}
	if logger == nil {
		return errspkg.ErrLoggerRequired
	}

	messages, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	logger.Info("host bridge started", logging.LogFields{
		"topic":  topic,
		"format": provider.Format().String(),
	})

	tracer := otel.Tracer(tracerName)
	for msg := range messages {
		msgCtx, span := tracer.Start(msg.Context(), "WriteBatch", trace.WithSpanKind(trace.SpanKindConsumer))

		batch, decodeErr := decodeBatch(msg)
		if decodeErr != nil {
			logger.Error("undecodable delivery", decodeErr, logging.LogFields{
				"uuid":  msg.UUID,
				"topic": topic,
			})
			span.RecordError(decodeErr)
			span.End()
			msg.Ack()
			continue
		}

		span.SetAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.Int("batch.size", len(batch)),
		)

		writeErr := provider.WriteBatch(msgCtx, batch)
		span.End()
		if writeErr != nil {
			// Output sink failures are unrecoverable for this process.
			msg.Ack()
			return writeErr
		}
		msg.Ack()
	}

	logger.Info("host bridge stopped", logging.LogFields{"topic": topic})
	return nil
}

// decodeBatch turns one delivery into a batch of envelopes. A JSON array
// payload is a pre-framed batch; anything else must be a single envelope
// object. Watermill metadata is folded into envelopes that carry none of
// their own, so broker-level headers stay visible in the output.
func decodeBatch(msg *message.Message) ([]*envelope.Envelope, error) {
	trimmed := bytes.TrimSpace(msg.Payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []*envelope.Envelope
		if err := jsoncodec.Unmarshal(trimmed, &batch); err != nil {
			return nil, err
		}
		for _, env := range batch {
			mergeMessageMetadata(env, msg.Metadata)
		}
		return batch, nil
	}

	env, err := envelope.ParseLine(trimmed)
	if err != nil {
		return nil, err
	}
	mergeMessageMetadata(env, msg.Metadata)
	return []*envelope.Envelope{env}, nil
}

func mergeMessageMetadata(env *envelope.Envelope, md message.Metadata) {
	if env == nil || len(env.Metadata) > 0 || len(md) == 0 {
		return
	}
	for _, key := range sortedKeys(md) {
		value, err := json.Marshal(md[key])
		if err != nil {
			continue
		}
		env.Metadata = env.Metadata.With(key, value)
	}
}

func sortedKeys(md message.Metadata) []string {
	keys := make([]string, 0, len(md))
	for key := range md {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
