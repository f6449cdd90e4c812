// Package gateway exposes the poll engine over a WebSocket endpoint.
//
// Each connection gets its own session identifier. Inbound frames are
// commands (create a poll, start a question, join, answer) acknowledged
// back to the sender; outbound frames are poll events fanned out to every
// session subscribed to the poll. The hub is the engine's Publisher:
// fan-out enqueues to per-session buffered channels and never blocks, so
// publishing under the registry lock is safe and per-poll event order
// matches mutation order. A session that cannot keep up has frames
// dropped rather than stalling the engine.
package gateway
