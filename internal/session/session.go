package session

import (
	"math"
	"time"

	"github.com/rickgao/session-clock/internal/model"
)

// HoursPerDay is the length of the session clock.
const HoursPerDay = 24

// powerHourMinutes is the width of the power-hour band at either end of a session.
const powerHourMinutes = 60

// IsOpen reports whether the session is open at the given UTC hour-of-day.
func IsOpen(s model.Session, now float64) bool {
	return inInterval(s.Open, s.Close, normalize(now))
}

// Duration returns the session length in hours. open == close yields a full day.
func Duration(s model.Session) float64 {
	if !s.Wraps() {
		return float64(s.Close - s.Open)
	}
	return float64(HoursPerDay - s.Open + s.Close)
}

// Evaluate computes the status of one session at the given UTC hour-of-day.
func Evaluate(s model.Session, now float64) model.SessionStatus {
	now = normalize(now)
	duration := Duration(s)

	st := model.SessionStatus{
		SessionID:     s.ID,
		Status:        model.StateClosed,
		DurationHours: duration,
	}

	if !inInterval(s.Open, s.Close, now) {
		untilOpen := hoursUntil(s.Open, now)
		st.HoursRemaining = untilOpen
		st.Countdown = countdown(untilOpen)
		return st
	}

	remaining := hoursUntil(s.Close, now)
	if remaining == 0 {
		// Only reachable for an open == close session at its open instant.
		remaining = HoursPerDay
	}

	minutesSinceOpen := math.Mod(now-float64(s.Open)+HoursPerDay, HoursPerDay) * 60
	minutesUntilClose := remaining * 60

	st.Status = model.StateOpen
	st.HoursRemaining = remaining
	st.Countdown = countdown(remaining)
	st.Progress = clamp((duration-remaining)/duration*100, 0, 100)
	st.IsPowerHour = minutesSinceOpen <= powerHourMinutes || minutesUntilClose <= powerHourMinutes
	return st
}

// EvaluateAll computes statuses for every session, keyed by session ID.
func EvaluateAll(sessions []model.Session, now float64) map[string]model.SessionStatus {
	out := make(map[string]model.SessionStatus, len(sessions))
	for _, s := range sessions {
		out[s.ID] = Evaluate(s, now)
	}
	return out
}

// Active returns the sessions open at the given UTC hour-of-day, in table order.
func Active(sessions []model.Session, now float64) []model.Session {
	var active []model.Session
	for _, s := range sessions {
		if IsOpen(s, now) {
			active = append(active, s)
		}
	}
	return active
}

// inInterval applies the half-open [open, close) rule, wrapping midnight when close <= open.
func inInterval(openHour, closeHour int, now float64) bool {
	if closeHour > openHour {
		return now >= float64(openHour) && now < float64(closeHour)
	}
	return now >= float64(openHour) || now < float64(closeHour)
}

// hoursUntil returns the forward distance in hours from now to the given hour.
func hoursUntil(hour int, now float64) float64 {
	d := float64(hour) - now
	if d < 0 {
		d += HoursPerDay
	}
	return d
}

// countdown floors a duration in hours to whole hours and minutes.
// The value is first rounded to the second so 0.5h is always 30m.
func countdown(hours float64) model.Countdown {
	d := time.Duration(math.Round(hours*3600)) * time.Second
	return model.Countdown{
		Hours:   int(d / time.Hour),
		Minutes: int((d % time.Hour) / time.Minute),
	}
}

// normalize folds any hour value into [0,24).
func normalize(h float64) float64 {
	if h >= 0 && h < HoursPerDay {
		return h
	}
	h = math.Mod(h, HoursPerDay)
	if h < 0 {
		h += HoursPerDay
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
