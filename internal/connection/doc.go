// Package connection implements the snapshot stream client.
//
// Client wraps a single WebSocket connection: it answers server pings, sends
// its own keepalive pings, and flags the connection stale when neither side
// has been heard from within PingTimeout.
//
// Follower keeps a Client connected to a session clock server, reconnecting
// with exponential backoff, and decodes every snapshot frame.
package connection
