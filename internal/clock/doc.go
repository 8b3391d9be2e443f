// Package clock samples wall-clock time and breaks it into readings.
//
// A Reading carries integer hour/minute/second components plus a continuous
// TotalHours value used by all session math. The Ticker re-samples once per
// period and hands the sampled time to a TickHandler; there is no drift
// correction, the next tick simply reads the clock again.
package clock
