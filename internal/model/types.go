package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Static Types
// -----------------------------------------------------------------------------

// Session is a named trading-hours interval tied to a geographic market.
// A session whose Close is <= Open spans midnight UTC.
type Session struct {
	ID            string   `yaml:"id" json:"id"`                        // Stable identifier (e.g., "london")
	Name          string   `yaml:"name" json:"name"`                    // Display name
	Region        string   `yaml:"region" json:"region"`                // Display region
	Open          int      `yaml:"open" json:"open"`                    // Open hour, UTC [0,24)
	Close         int      `yaml:"close" json:"close"`                  // Close hour, UTC [0,24)
	Color         string   `yaml:"color" json:"color"`                  // Display only
	CurrencyPairs []string `yaml:"currency_pairs" json:"currencyPairs"` // e.g., ["EUR/USD", "GBP/USD"]
	Radius        float64  `yaml:"radius,omitempty" json:"radius,omitempty"`
}

// Wraps returns true if the session spans midnight UTC.
func (s Session) Wraps() bool {
	return s.Close <= s.Open
}

// HoursLabel returns the "HH:00 - HH:00" label used by the legend.
func (s Session) HoursLabel() string {
	return fmt.Sprintf("%02d:00 - %02d:00", s.Open, s.Close)
}

// Window is a half-open [Start, End) interval of UTC hours. End <= Start wraps midnight.
type Window struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// -----------------------------------------------------------------------------
// Derived Types (recomputed every tick)
// -----------------------------------------------------------------------------

// ClockReading is a wall-clock sample broken into display components.
type ClockReading struct {
	Hours      int     `json:"hours"`
	Minutes    int     `json:"minutes"`
	Seconds    int     `json:"seconds"`
	TotalHours float64 `json:"totalHours"`         // Continuous hour-of-day [0,24)
	Timezone   string  `json:"timezone,omitempty"` // IANA zone name, local readings only
}

// Clock returns the zero-padded "HH:MM" display string.
func (r ClockReading) Clock() string {
	return fmt.Sprintf("%02d:%02d", r.Hours, r.Minutes)
}

// State is the logical state of a session.
type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// Countdown is a whole hours + whole minutes duration until the next transition.
// It encodes as its "<h>h <m>m" display string, not as an object.
type Countdown struct {
	Hours   int
	Minutes int
}

// String renders the countdown as "<h>h <m>m".
func (c Countdown) String() string {
	return fmt.Sprintf("%dh %dm", c.Hours, c.Minutes)
}

// MarshalText renders the countdown in its display form.
func (c Countdown) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the "<h>h <m>m" display form.
func (c *Countdown) UnmarshalText(text []byte) error {
	var h, m int
	if _, err := fmt.Sscanf(string(text), "%dh %dm", &h, &m); err != nil {
		return fmt.Errorf("parse countdown %q: %w", text, err)
	}
	c.Hours, c.Minutes = h, m
	return nil
}

// SessionStatus is the per-session result of the analytics engine.
type SessionStatus struct {
	SessionID      string    `json:"sessionId"`
	Status         State     `json:"status"`
	Countdown      Countdown `json:"countdown"`      // To close if open, to open if closed
	HoursRemaining float64   `json:"hoursRemaining"` // Same quantity as Countdown, unrounded
	DurationHours  float64   `json:"durationHours"`
	Progress       float64   `json:"progress"` // 0-100, 0 when closed
	IsPowerHour    bool      `json:"isPowerHour"`
}

// IsOpen returns true if the status is OPEN.
func (s SessionStatus) IsOpen() bool {
	return s.Status == StateOpen
}

// -----------------------------------------------------------------------------
// Feed Types
// -----------------------------------------------------------------------------

// Headline is a single news item from the news feed.
type Headline struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// PairQuote is the display price for a currency pair.
type PairQuote struct {
	Pair    string `json:"pair"`    // "EUR/USD"
	Price   string `json:"price"`   // Formatted price or placeholder
	Method  string `json:"method"`  // "direct", "inverse", "cross", or "" when unavailable
	Present bool   `json:"present"` // False when the placeholder is shown
}

// -----------------------------------------------------------------------------
// Snapshot
// -----------------------------------------------------------------------------

// Snapshot is the joined per-tick view pushed to dashboards.
type Snapshot struct {
	ID                uuid.UUID          `json:"id"`
	GeneratedAt       time.Time          `json:"generatedAt"`
	UTC               ClockReading       `json:"utc"`
	Local             ClockReading       `json:"local"`
	Sessions          []Session          `json:"sessions"`
	Statuses          []SessionStatus    `json:"statuses"` // Same order as Sessions
	Active            []string           `json:"active"`   // IDs of open sessions, table order
	Volatile          bool               `json:"volatile"`
	VolatilityWindows []Window           `json:"volatilityWindows"`
	Rates             map[string]float64 `json:"rates,omitempty"`
	Quotes            []PairQuote        `json:"quotes,omitempty"`
	News              []Headline         `json:"news,omitempty"`
	RatesUpdatedAt    time.Time          `json:"ratesUpdatedAt,omitzero"`
	NewsUpdatedAt     time.Time          `json:"newsUpdatedAt,omitzero"`
}

// Status returns the status for a session ID.
func (s Snapshot) Status(id string) (SessionStatus, bool) {
	for _, st := range s.Statuses {
		if st.SessionID == id {
			return st, true
		}
	}
	return SessionStatus{}, false
}
