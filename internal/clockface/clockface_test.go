package clockface

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/session"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPoint(t *testing.T) {
	tests := []struct {
		name string
		hour float64
		want Pt
	}{
		{"midnight at top", 0, Pt{200, 40}},
		{"06 at right", 6, Pt{360, 200}},
		{"12 at bottom", 12, Pt{200, 360}},
		{"18 at left", 18, Pt{40, 200}},
		{"24 wraps to top", 24, Pt{200, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Point(tt.hour, 160)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("Point(%v, 160) = %+v, want %+v", tt.hour, got, tt.want)
			}
		})
	}
}

func TestArcPath(t *testing.T) {
	tests := []struct {
		name        string
		open, close int
		want        string
	}{
		{"short arc", 0, 6, "M 200 40 A 160 160 0 0 1 360 200"},
		{"exactly twelve is small", 6, 18, "M 360 200 A 160 160 0 0 1 40 200"},
		{"long arc", 0, 18, "M 200 40 A 160 160 0 1 1 40 200"},
		{"wraps midnight", 18, 6, "M 40 200 A 160 160 0 0 1 360 200"},
		{"full day", 6, 6, "M 360 200 A 160 160 0 0 1 40 200 A 160 160 0 0 1 360 200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArcPath(tt.open, tt.close, 160); got != tt.want {
				t.Errorf("ArcPath(%d, %d) = %q, want %q", tt.open, tt.close, got, tt.want)
			}
		})
	}
}

func TestMarks(t *testing.T) {
	marks := HourMarks()
	if len(marks) != 24 {
		t.Fatalf("len(HourMarks) = %d, want 24", len(marks))
	}
	major := 0
	for _, m := range marks {
		if m.Major {
			major++
		}
	}
	if major != 4 {
		t.Errorf("major hour marks = %d, want 4", major)
	}
	if marks[9].Label != "09" {
		t.Errorf("marks[9].Label = %q", marks[9].Label)
	}
	if !near(marks[0].TY, 200-HourTextRadius) {
		t.Errorf("marks[0].TY = %v", marks[0].TY)
	}

	ticks := MinuteTicks()
	if len(ticks) != 60 {
		t.Fatalf("len(MinuteTicks) = %d, want 60", len(ticks))
	}
	major = 0
	for _, tk := range ticks {
		if tk.Major {
			major++
		}
	}
	if major != 12 {
		t.Errorf("major minute ticks = %d, want 12", major)
	}
}

func TestFmtFloat(t *testing.T) {
	tests := map[float64]string{
		200:          "200",
		40.5:         "40.5",
		1.23456:      "1.235",
		-0.0001:      "0",
		359.99999999: "360",
	}
	for in, want := range tests {
		if got := fmtFloat(in); got != want {
			t.Errorf("fmtFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBuild(t *testing.T) {
	sessions := session.DefaultSessions()
	sessions[0].Radius = 0
	reading := model.ClockReading{Hours: 6, Minutes: 15, Seconds: 30, TotalHours: 6.25}

	f := Build(reading, sessions, []string{"tokyo"}, []model.Window{{Start: 13, End: 17}})

	if f.Title != "06:15 UTC" {
		t.Errorf("Title = %q", f.Title)
	}
	if len(f.Arcs) != len(sessions) {
		t.Fatalf("len(Arcs) = %d", len(f.Arcs))
	}
	for _, a := range f.Arcs {
		wantStroke := ArcStroke
		if a.ID == "tokyo" {
			wantStroke = ActiveArcStroke
		}
		if a.Stroke != wantStroke || a.Active != (a.ID == "tokyo") {
			t.Errorf("arc %s: stroke %v active %v", a.ID, a.Stroke, a.Active)
		}
	}
	if want := ArcPath(22, 7, DefaultArcRadius); f.Arcs[0].Path != want {
		t.Errorf("sydney path = %q, want default radius %q", f.Arcs[0].Path, want)
	}
	if len(f.Overlaps) != 1 || f.Overlaps[0].Path != ArcPath(13, 17, OverlapRadius) {
		t.Errorf("Overlaps = %+v", f.Overlaps)
	}

	// 06:15 puts the hour hand just past three o'clock on a 24h dial.
	if f.Hour.X <= 200 || f.Hour.Y <= 200-HourHandLength {
		t.Errorf("Hour hand = %+v", f.Hour)
	}
	// 15 minutes points the minute hand right.
	if !near(f.Minute.X, 200+MinuteHandLength) || !near(f.Minute.Y, 200) {
		t.Errorf("Minute hand = %+v", f.Minute)
	}
	// 30 seconds points the second hand down.
	if !near(f.Second.X, 200) || !near(f.Second.Y, 200+SecondHandLength) {
		t.Errorf("Second hand = %+v", f.Second)
	}
}

func TestFromSnapshot(t *testing.T) {
	snap := model.Snapshot{
		UTC:      model.ClockReading{Hours: 14, TotalHours: 14},
		Local:    model.ClockReading{Hours: 10, TotalHours: 10, Timezone: "America/New_York"},
		Sessions: session.DefaultSessions(),
		Active:   []string{"london", "newyork"},
	}

	if got := FromSnapshot(snap, false).Title; got != "14:00 UTC" {
		t.Errorf("utc title = %q", got)
	}
	if got := FromSnapshot(snap, true).Title; got != "10:00 America/New_York" {
		t.Errorf("local title = %q", got)
	}
}

func TestRender(t *testing.T) {
	snap := model.Snapshot{
		UTC:               model.ClockReading{Hours: 14, Minutes: 5, TotalHours: 14 + 5.0/60},
		Sessions:          session.DefaultSessions(),
		Active:            []string{"london", "newyork"},
		VolatilityWindows: []model.Window{{Start: 13, End: 17}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, FromSnapshot(snap, false)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Errorf("not an svg document: %.60q", out)
	}
	checks := []struct {
		substr string
		count  int
	}{
		{`class="session active"`, 2},
		{`class="session"`, 2},
		{`class="overlap"`, 1},
		{`<text `, 24},
		{`data-session="newyork"`, 1},
		{`<title>New York</title>`, 1},
	}
	for _, c := range checks {
		if got := strings.Count(out, c.substr); got != c.count {
			t.Errorf("count(%q) = %d, want %d", c.substr, got, c.count)
		}
	}
}
