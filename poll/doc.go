// Package poll implements the core of the live polling backend: the
// registry owning all poll and question state, the lifecycle controller
// driving a question from started to ended, and the membership tracker
// maintaining each poll's roster across joins and disconnects.
//
// A poll holds at most one active question at a time. The active question
// ends through exactly one of two triggers: its deadline timer fires, or
// every joined student has answered. Both paths publish a single
// "question:end" event and archive the question with its frozen tally.
//
// # Ownership and concurrency
//
// The Registry is the sole owner of all state. Every mutation, including
// the deadline timer callback, runs to completion under the registry mutex;
// the timer re-checks the current question's identity before acting so a
// late firing after early completion is a no-op. Event publication happens
// under the same mutex, which keeps per-poll event order consistent with
// mutation order. Publisher implementations therefore must not block.
//
// Nothing in this package touches the network. Inbound operations arrive
// through the gateway package, which translates the categorical errors
// returned here into acknowledgment payloads for the calling session.
package poll
