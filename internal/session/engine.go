package session

import (
	"errors"
	"fmt"

	"github.com/rickgao/session-clock/internal/model"
)

// Result is the output of one engine pass.
type Result struct {
	Statuses []model.SessionStatus // Table order
	ByID     map[string]model.SessionStatus
	Active   []model.Session
	Volatile bool
	Windows  []model.Window
}

// ActiveIDs returns the IDs of the open sessions, in table order.
func (r Result) ActiveIDs() []string {
	ids := make([]string, 0, len(r.Active))
	for _, s := range r.Active {
		ids = append(ids, s.ID)
	}
	return ids
}

// Engine evaluates a fixed session table. It is safe for concurrent use.
type Engine struct {
	sessions []model.Session
	windows  []model.Window
}

// NewEngine validates the table and resolves the volatility windows once.
func NewEngine(sessions []model.Session, vol Volatility) (*Engine, error) {
	if err := ValidateSessions(sessions); err != nil {
		return nil, err
	}
	windows, err := vol.Resolve(sessions)
	if err != nil {
		return nil, err
	}

	table := make([]model.Session, len(sessions))
	copy(table, sessions)

	return &Engine{
		sessions: table,
		windows:  windows,
	}, nil
}

// Sessions returns a copy of the session table.
func (e *Engine) Sessions() []model.Session {
	out := make([]model.Session, len(e.sessions))
	copy(out, e.sessions)
	return out
}

// Session returns a session by ID.
func (e *Engine) Session(id string) (model.Session, bool) {
	for _, s := range e.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Session{}, false
}

// Windows returns the resolved volatility windows.
func (e *Engine) Windows() []model.Window {
	out := make([]model.Window, len(e.windows))
	copy(out, e.windows)
	return out
}

// Compute evaluates every session against a UTC reading.
func (e *Engine) Compute(utc model.ClockReading) Result {
	now := utc.TotalHours

	res := Result{
		Statuses: make([]model.SessionStatus, 0, len(e.sessions)),
		ByID:     make(map[string]model.SessionStatus, len(e.sessions)),
		Volatile: InWindows(e.windows, now),
		Windows:  e.Windows(),
	}
	for _, s := range e.sessions {
		st := Evaluate(s, now)
		res.Statuses = append(res.Statuses, st)
		res.ByID[s.ID] = st
		if st.IsOpen() {
			res.Active = append(res.Active, s)
		}
	}
	return res
}

// ValidateSessions checks the table invariants: non-empty unique IDs and
// open/close hours in [0,24).
func ValidateSessions(sessions []model.Session) error {
	if len(sessions) == 0 {
		return errors.New("session table is empty")
	}
	seen := make(map[string]struct{}, len(sessions))
	for i, s := range sessions {
		if s.ID == "" {
			return fmt.Errorf("sessions[%d].id is required", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("sessions[%d].id %q is duplicated", i, s.ID)
		}
		seen[s.ID] = struct{}{}

		if err := validHour(s.Open); err != nil {
			return fmt.Errorf("sessions[%d] (%s) open: %w", i, s.ID, err)
		}
		if err := validHour(s.Close); err != nil {
			return fmt.Errorf("sessions[%d] (%s) close: %w", i, s.ID, err)
		}
	}
	return nil
}
