package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/session-clock/internal/dashboard"
	"github.com/rickgao/session-clock/internal/session"
)

func TestParseAt(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", now, false},
		{"2024-01-02T23:30:00Z", time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC), false},
		{"14:30", time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), false},
		{"25:00", time.Time{}, true},
		{"tomorrow", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAt(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseAt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintTable(t *testing.T) {
	engine, err := session.NewEngine(session.DefaultSessions(), session.DefaultVolatility())
	if err != nil {
		t.Fatal(err)
	}
	// Tokyo at 08:30: open, 94.4%, last hour.
	snap := dashboard.New(engine, nil, nil, nil, nil).Build(time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := printTable(&buf, snap); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"UTC 08:30",
		"Volatility window: inactive",
		"SESSION",
		"Tokyo",
		"94.4%",
		"0h 30m",
		"CLOSED",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if got := len(lines); got != 8 {
		t.Errorf("lines = %d, want 8", got)
	}
}
