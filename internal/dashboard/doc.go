// Package dashboard joins the clock, the session engine and the feed store
// into one Snapshot per tick.
package dashboard
