// Package store holds the latest good value of each external feed.
//
// The store is the only shared mutable state between the feed pollers and the
// dashboard tick. Readers get copies; writers replace whole values. A failed
// fetch never reaches the store, so the previous value stays visible until the
// next success.
//
// An optional Mirror persists values outside the process (Redis) so a
// restarted instance can show rates and news before its first fetch.
package store
