// SPDX-License-Identifier: GPL-3.0-or-later

package ctransport

import "time"

// EventKind is a closed set of Audit Trail event kinds emitted by the
// Request Pipeline at every boundary crossing (sniff, ping, request,
// node status change).
type EventKind string

// Recognized [EventKind] values.
const (
	EventSniffOnStartup        EventKind = "SniffOnStartup"
	EventSniffSuccess          EventKind = "SniffSuccess"
	EventSniffFailure          EventKind = "SniffFailure"
	EventSniffOnStaleCluster   EventKind = "SniffOnStaleCluster"
	EventPingSuccess           EventKind = "PingSuccess"
	EventPingFailure           EventKind = "PingFailure"
	EventResurrection          EventKind = "Resurrection"
	EventAllNodesDead          EventKind = "AllNodesDead"
	EventBadResponse           EventKind = "BadResponse"
	EventHealthyResponse       EventKind = "HealthyResponse"
	EventMaxTimeoutReached     EventKind = "MaxTimeoutReached"
	EventMaxRetriesReached     EventKind = "MaxRetriesReached"
	EventBadRequest            EventKind = "BadRequest"
	EventNoNodesAttempted      EventKind = "NoNodesAttempted"
	EventCancellationRequested EventKind = "CancellationRequested"
	EventFailedOverAllNodes    EventKind = "FailedOverAllNodes"
)

// AuditEvent is a single entry in an [AuditTrail]: a state-machine
// transition that crosses a boundary, with its timing and, when
// applicable, the node involved and the error that triggered it.
type AuditEvent struct {
	// Kind identifies the transition.
	Kind EventKind

	// Node is the node this event pertains to, or nil when the event is
	// not node-scoped (e.g. [EventMaxTimeoutReached]).
	Node *Node

	// Start is when the underlying operation began.
	Start time.Time

	// End is when the underlying operation completed. Equal to Start for
	// instantaneous events (e.g. a status-change record with no
	// suspension point of its own).
	End time.Time

	// Err is the error associated with this event, if any.
	Err error
}

// AuditTrail is the append-only, totally-ordered event list a single
// pipeline call produces. It travels with the [ApiCallDetails] of every
// [Response], successful or not.
type AuditTrail struct {
	events []AuditEvent
}

// NewAuditTrail returns an empty [AuditTrail].
func NewAuditTrail() *AuditTrail {
	return &AuditTrail{}
}

// Append records a new event at the end of the trail.
func (a *AuditTrail) Append(kind EventKind, node *Node, start, end time.Time, err error) {
	a.events = append(a.events, AuditEvent{Kind: kind, Node: node, Start: start, End: end, Err: err})
}

// Events returns the recorded events in order. The returned slice must
// not be mutated by the caller.
func (a *AuditTrail) Events() []AuditEvent {
	return a.events
}

// Len returns the number of recorded events.
func (a *AuditTrail) Len() int {
	return len(a.events)
}

// Kinds returns the ordered sequence of [EventKind] values, discarding
// timing and node detail. Primarily used by tests asserting an exact
// audit shape.
func (a *AuditTrail) Kinds() []EventKind {
	kinds := make([]EventKind, len(a.events))
	for i, e := range a.events {
		kinds[i] = e.Kind
	}
	return kinds
}
