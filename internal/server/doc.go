// Package server exposes a running session over HTTP.
//
// Routes:
//
//	GET /healthz   liveness probe
//	GET /status    JSON snapshot of the link and the last reported state
//	GET /metrics   Prometheus metrics
//	GET /ws        WebSocket stream of status updates
//
// The server implements the session observer interface; every event updates
// the snapshot and is pushed to connected WebSocket clients as a JSON text
// message. A newly connected client receives the current snapshot first.
package server
