// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the subset of [trace.Tracer] a [Transport] needs to open a
// span per call. [trace.Tracer] itself satisfies this interface.
type Tracer interface {
	Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// SpanEvents translates the audit trail into OpenTelemetry span events,
// one per [AuditEvent], carrying its node (when present) and error (when
// present) as attributes.
func (a *AuditTrail) SpanEvents() []spanEventRecord {
	out := make([]spanEventRecord, len(a.events))
	for i, ev := range a.events {
		attrs := []attribute.KeyValue{
			attribute.String("ctransport.event", string(ev.Kind)),
		}
		if ev.Node != nil {
			attrs = append(attrs, attribute.String("ctransport.node", ev.Node.BaseURL))
		}
		if ev.Err != nil {
			attrs = append(attrs, attribute.String("ctransport.error", ev.Err.Error()))
		}
		out[i] = spanEventRecord{Name: string(ev.Kind), Time: ev.End, Attributes: attrs}
	}
	return out
}

// spanEventRecord is a single span event derived from an [AuditEvent],
// ready for [trace.Span.AddEvent].
type spanEventRecord struct {
	Name       string
	Time       time.Time
	Attributes []attribute.KeyValue
}

// emitSpanEvents replays a, as span events, onto span.
func emitSpanEvents(span trace.Span, a *AuditTrail) {
	for _, rec := range a.SpanEvents() {
		span.AddEvent(rec.Name, trace.WithTimestamp(rec.Time), trace.WithAttributes(rec.Attributes...))
	}
}
