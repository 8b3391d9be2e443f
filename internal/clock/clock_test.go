package clock

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestReadUTC(t *testing.T) {
	ts := time.Date(2024, 3, 15, 13, 30, 45, 0, time.FixedZone("X", 2*3600))

	r := ReadUTC(ts)
	if r.Hours != 11 || r.Minutes != 30 || r.Seconds != 45 {
		t.Errorf("components = %02d:%02d:%02d, want 11:30:45", r.Hours, r.Minutes, r.Seconds)
	}
	want := 11 + 30.0/60 + 45.0/3600
	if math.Abs(r.TotalHours-want) > 1e-9 {
		t.Errorf("TotalHours = %v, want %v", r.TotalHours, want)
	}
	if r.Timezone != "" {
		t.Errorf("Timezone = %q, want empty", r.Timezone)
	}
	if r.Clock() != "11:30" {
		t.Errorf("Clock() = %q, want %q", r.Clock(), "11:30")
	}
}

func TestReadIn(t *testing.T) {
	loc := time.FixedZone("Test/Zone", -5*3600)
	ts := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)

	r := ReadIn(ts, loc)
	if r.Hours != 21 {
		t.Errorf("Hours = %d, want 21", r.Hours)
	}
	if r.Timezone != "Test/Zone" {
		t.Errorf("Timezone = %q, want %q", r.Timezone, "Test/Zone")
	}

	if got := ReadIn(ts, nil); got.Timezone != "UTC" || got.Hours != 2 {
		t.Errorf("ReadIn(nil) = %+v", got)
	}
}

func TestReadUTC_TotalHoursRange(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for s := 0; s < 86400; s += 37 {
		r := ReadUTC(base.Add(time.Duration(s) * time.Second))
		if r.TotalHours < 0 || r.TotalHours >= 24 {
			t.Fatalf("TotalHours = %v at second %d", r.TotalHours, s)
		}
	}
}

func TestLoadLocation(t *testing.T) {
	t.Run("explicit name", func(t *testing.T) {
		loc, err := LoadLocation("UTC")
		if err != nil {
			t.Fatalf("LoadLocation failed: %v", err)
		}
		if loc.String() != "UTC" {
			t.Errorf("loc = %s, want UTC", loc)
		}
	})

	t.Run("from TZ", func(t *testing.T) {
		t.Setenv("TZ", "UTC")
		loc, err := LoadLocation("")
		if err != nil {
			t.Fatalf("LoadLocation failed: %v", err)
		}
		if loc.String() != "UTC" {
			t.Errorf("loc = %s, want UTC", loc)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := LoadLocation("Not/AZone"); err == nil {
			t.Error("expected error")
		}
	})
}

func useHostFiles(t *testing.T, localtime, timezone string) {
	t.Helper()
	oldLocaltime, oldTimezone := localtimePath, timezoneFile
	localtimePath, timezoneFile = localtime, timezone
	t.Cleanup(func() {
		localtimePath, timezoneFile = oldLocaltime, oldTimezone
	})
}

func TestLoadLocation_Host(t *testing.T) {
	at := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)

	t.Run("localtime symlink", func(t *testing.T) {
		dir := t.TempDir()
		link := filepath.Join(dir, "localtime")
		if err := os.Symlink("/usr/share/zoneinfo/Asia/Tokyo", link); err != nil {
			t.Skipf("symlink unsupported: %v", err)
		}
		useHostFiles(t, link, filepath.Join(dir, "missing"))
		t.Setenv("TZ", "")

		loc, err := LoadLocation("")
		if err != nil {
			t.Fatalf("LoadLocation failed: %v", err)
		}
		if loc.String() != "Asia/Tokyo" {
			t.Errorf("loc = %s, want Asia/Tokyo", loc)
		}
		r := ReadIn(at, loc)
		if r.Timezone != "Asia/Tokyo" || r.Hours != 12 {
			t.Errorf("reading = %+v, want Asia/Tokyo 12h", r)
		}
	})

	t.Run("timezone file", func(t *testing.T) {
		dir := t.TempDir()
		tzFile := filepath.Join(dir, "timezone")
		if err := os.WriteFile(tzFile, []byte("Europe/London\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		useHostFiles(t, filepath.Join(dir, "missing"), tzFile)
		t.Setenv("TZ", "")

		loc, err := LoadLocation("")
		if err != nil {
			t.Fatalf("LoadLocation failed: %v", err)
		}
		if loc.String() != "Europe/London" {
			t.Errorf("loc = %s, want Europe/London", loc)
		}
	})

	t.Run("no host files", func(t *testing.T) {
		dir := t.TempDir()
		useHostFiles(t, filepath.Join(dir, "missing"), filepath.Join(dir, "missing"))
		t.Setenv("TZ", "")

		loc, err := LoadLocation("")
		if err != nil {
			t.Fatalf("LoadLocation failed: %v", err)
		}
		if loc != time.Local {
			t.Errorf("loc = %v, want time.Local", loc)
		}
	})
}

func TestFixed(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewFixed(start)

	c.Advance(90 * time.Minute)
	if got := c.Now(); !got.Equal(start.Add(90 * time.Minute)) {
		t.Errorf("Now = %v", got)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Error("Set did not apply")
	}
}

func TestTicker_StartStop(t *testing.T) {
	c := NewFixed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var ticks atomic.Int32
	tk := NewTicker(c, 10*time.Millisecond, TickHandlerFunc(func(time.Time) {
		ticks.Add(1)
	}), nil)

	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(55 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := tk.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// Immediate tick plus several periodic ones.
	if got := ticks.Load(); got < 2 {
		t.Errorf("ticks = %d, want >= 2", got)
	}

	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("ticker kept running after Stop")
	}
}

func TestNewTicker_Defaults(t *testing.T) {
	tk := NewTicker(nil, 0, nil, nil)
	if tk.period != DefaultPeriod {
		t.Errorf("period = %v, want %v", tk.period, DefaultPeriod)
	}
	if _, ok := tk.clock.(System); !ok {
		t.Errorf("clock = %T, want System", tk.clock)
	}
}
