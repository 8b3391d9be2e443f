// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Clock tick count and snapshot build latency
//   - Open session count, per-session open state, volatility flag
//   - Feed fetch results and latencies
//   - Connected stream clients
//   - Timetable export results
//
// Init registers everything once with the default registry. Every helper is
// a no-op until Init has run, so packages can record unconditionally.
package metrics
