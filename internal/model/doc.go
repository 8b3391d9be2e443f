// Package model defines shared data types used across the Session Clock service.
//
// Conventions:
//   - Hours: session boundaries are integer UTC hours-of-day in [0,24)
//   - Clock math: continuous float64 hour-of-day ("total hours") in [0,24)
//   - Timestamps: time.Time, always UTC on the wire
//   - IDs: short lowercase strings for sessions ("london"), uuid.UUID for stream clients
package model
