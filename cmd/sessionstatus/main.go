// sessionstatus prints the session table evaluated at one instant.
// Usage: go run ./cmd/sessionstatus [--config file] [--at 2024-03-15T14:30:00Z | --at 14:30] [--json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rickgao/session-clock/internal/clock"
	"github.com/rickgao/session-clock/internal/config"
	"github.com/rickgao/session-clock/internal/dashboard"
	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	at := flag.String("at", "", "instant to evaluate: RFC3339 or HH:MM (UTC, today); default now")
	asJSON := flag.Bool("json", false, "print the snapshot as JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	now, err := parseAt(*at, time.Now())
	if err != nil {
		logger.Error("invalid --at", "error", err)
		os.Exit(2)
	}

	loc, err := clock.LoadLocation(cfg.Clock.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}
	engine, err := session.NewEngine(cfg.Sessions, cfg.Volatility)
	if err != nil {
		logger.Error("invalid session table", "error", err)
		os.Exit(1)
	}

	snap := dashboard.New(engine, nil, loc, nil, logger).Build(now)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			logger.Error("failed to encode snapshot", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := printTable(os.Stdout, snap); err != nil {
		logger.Error("failed to print table", "error", err)
		os.Exit(1)
	}
}

// parseAt accepts RFC3339 or HH:MM on the UTC date of now.
func parseAt(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	hm, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC3339 nor HH:MM", s)
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, time.UTC), nil
}

func printTable(w io.Writer, snap model.Snapshot) error {
	fmt.Fprintf(w, "UTC %s   Local %s %s\n", snap.UTC.Clock(), snap.Local.Clock(), snap.Local.Timezone)
	if snap.Volatile {
		fmt.Fprintln(w, "Volatility window: ACTIVE")
	} else {
		fmt.Fprintln(w, "Volatility window: inactive")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tHOURS (UTC)\tSTATUS\tCOUNTDOWN\tPROGRESS\tPOWER\tPAIRS")
	for i, s := range snap.Sessions {
		st := snap.Statuses[i]
		progress, power := "", ""
		if st.IsOpen() {
			progress = fmt.Sprintf("%.1f%%", st.Progress)
			if st.IsPowerHour {
				power = "yes"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Name, s.HoursLabel(), st.Status, st.Countdown, progress, power,
			strings.Join(s.CurrencyPairs, " "))
	}
	return tw.Flush()
}
