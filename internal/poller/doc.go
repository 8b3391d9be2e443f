// Package poller drives periodic best-effort fetches of the external feeds.
//
// A Poller:
//   - Fetches once on start, then every Interval
//   - Bounds each fetch with Timeout
//   - Logs and counts failures, leaving the handler's last good value alone
//   - Hands successful results to a Handler (the latest-value store)
package poller
