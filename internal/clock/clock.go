package clock

import (
	"os"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/rickgao/session-clock/internal/model"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// System is the process wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Fixed is a settable clock for tests and one-shot tools.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed returns a clock stopped at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now returns the stored time.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// ReadUTC returns the UTC reading of t.
func ReadUTC(t time.Time) model.ClockReading {
	return read(t.UTC(), "")
}

// ReadIn returns the reading of t in loc. A nil loc means UTC.
func ReadIn(t time.Time, loc *time.Location) model.ClockReading {
	if loc == nil {
		loc = time.UTC
	}
	return read(t.In(loc), loc.String())
}

func read(t time.Time, zone string) model.ClockReading {
	h, m, s := t.Clock()
	return model.ClockReading{
		Hours:      h,
		Minutes:    m,
		Seconds:    s,
		TotalHours: float64(h) + float64(m)/60 + float64(s)/3600,
		Timezone:   zone,
	}
}

// Host zone sources, in lookup order.
var (
	localtimePath = "/etc/localtime"
	timezoneFile  = "/etc/timezone"
)

// LoadLocation resolves the viewer's zone: name, then $TZ, then the host's
// IANA zone. time.Local (named "Local") is the last resort.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = os.Getenv("TZ")
	}
	if name == "" {
		return hostLocation(), nil
	}
	return time.LoadLocation(name)
}

// hostLocation names the host zone from the /etc/localtime symlink target
// or /etc/timezone.
func hostLocation() *time.Location {
	if target, err := os.Readlink(localtimePath); err == nil {
		if i := strings.LastIndex(target, "zoneinfo/"); i >= 0 {
			if loc, err := time.LoadLocation(target[i+len("zoneinfo/"):]); err == nil {
				return loc
			}
		}
	}
	if b, err := os.ReadFile(timezoneFile); err == nil {
		if name := strings.TrimSpace(string(b)); name != "" {
			if loc, err := time.LoadLocation(name); err == nil {
				return loc
			}
		}
	}
	return time.Local
}
