// Package session implements the Session Analytics Engine.
//
// The engine is a pure function of a static session table and the current UTC
// hour-of-day. For every session it derives:
//   - OPEN/CLOSED state (half-open [open, close), wrapping midnight when close <= open)
//   - Countdown to the next transition
//   - Progress through an open session (0-100)
//   - Power-hour flag (first or last 60 minutes of an open session)
//
// It also answers whether "now" lies in a volatility window, either configured
// explicitly or derived as the intersection of named sessions.
//
// Nothing here holds state between calls; recomputing every tick cannot miss a
// transition.
package session
