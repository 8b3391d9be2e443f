package session

import (
	"fmt"

	"github.com/rickgao/session-clock/internal/model"
)

// VolatilityMode selects how the volatility window is resolved.
type VolatilityMode string

const (
	// VolatilityDerived intersects the open intervals of the named sessions.
	VolatilityDerived VolatilityMode = "derived"
	// VolatilityFixed uses an explicit window.
	VolatilityFixed VolatilityMode = "fixed"
)

// Volatility configures the volatility window.
type Volatility struct {
	Mode     VolatilityMode `yaml:"mode"`
	Name     string         `yaml:"name"`
	Sessions []string       `yaml:"sessions"` // Derived mode: session IDs to intersect
	Window   model.Window   `yaml:"window"`   // Fixed mode
}

// Resolve returns the volatility windows for the given session table.
func (v Volatility) Resolve(sessions []model.Session) ([]model.Window, error) {
	switch v.Mode {
	case VolatilityFixed:
		if err := validHour(v.Window.Start); err != nil {
			return nil, fmt.Errorf("volatility window start: %w", err)
		}
		if err := validHour(v.Window.End); err != nil {
			return nil, fmt.Errorf("volatility window end: %w", err)
		}
		if v.Window.Start == v.Window.End {
			return nil, fmt.Errorf("volatility window %02d:00-%02d:00 is empty; fixed mode needs start != end", v.Window.Start, v.Window.End)
		}
		return []model.Window{v.Window}, nil

	case VolatilityDerived, "":
		byID := make(map[string]model.Session, len(sessions))
		for _, s := range sessions {
			byID[s.ID] = s
		}
		named := make([]model.Session, 0, len(v.Sessions))
		for _, id := range v.Sessions {
			s, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("volatility session %q not in session table", id)
			}
			named = append(named, s)
		}
		return Intersect(named...), nil

	default:
		return nil, fmt.Errorf("unknown volatility mode %q", v.Mode)
	}
}

// Intersect returns the windows during which every given session is open.
// Session boundaries are whole hours, so the intersection is computed on the
// 24 hourly slots. A result of {0,0} means the sessions overlap all day.
func Intersect(sessions ...model.Session) []model.Window {
	if len(sessions) == 0 {
		return nil
	}

	var slots [HoursPerDay]bool
	count := 0
	for h := 0; h < HoursPerDay; h++ {
		slots[h] = true
		for _, s := range sessions {
			if !inInterval(s.Open, s.Close, float64(h)) {
				slots[h] = false
				break
			}
		}
		if slots[h] {
			count++
		}
	}

	switch count {
	case 0:
		return nil
	case HoursPerDay:
		return []model.Window{{Start: 0, End: 0}}
	}

	// Walk runs starting at each rising edge; a run that crosses midnight
	// is found once, from its rising edge.
	var windows []model.Window
	for h := 0; h < HoursPerDay; h++ {
		prev := (h + HoursPerDay - 1) % HoursPerDay
		if !slots[h] || slots[prev] {
			continue
		}
		end := h
		for slots[end] {
			end = (end + 1) % HoursPerDay
		}
		windows = append(windows, model.Window{Start: h, End: end})
	}
	return windows
}

// InWindow reports whether now lies in the half-open window.
func InWindow(w model.Window, now float64) bool {
	return inInterval(w.Start, w.End, normalize(now))
}

// InWindows reports whether now lies in any of the windows.
func InWindows(windows []model.Window, now float64) bool {
	for _, w := range windows {
		if InWindow(w, now) {
			return true
		}
	}
	return false
}

func validHour(h int) error {
	if h < 0 || h >= HoursPerDay {
		return fmt.Errorf("hour %d outside [0,24)", h)
	}
	return nil
}
