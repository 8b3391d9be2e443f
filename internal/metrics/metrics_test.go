package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHelpers_BeforeInit(t *testing.T) {
	// Must not panic before registration.
	if ticksTotal != nil {
		t.Skip("metrics already initialised by another test")
	}
	ObserveTick(time.Millisecond)
	SetSessionStates(map[string]bool{"london": true})
	SetVolatile(true)
	ObserveFeedFetch("rates", nil, time.Millisecond)
	SetStreamClients(3)
	IncExport("xlsx", ResultSuccess)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	InitWith(reg)

	ObserveTick(2 * time.Millisecond)
	ObserveTick(3 * time.Millisecond)
	if got := testutil.ToFloat64(ticksTotal); got != 2 {
		t.Errorf("ticks_total = %v, want 2", got)
	}

	SetSessionStates(map[string]bool{"london": true, "newyork": true, "tokyo": false})
	if got := testutil.ToFloat64(sessionsOpen); got != 2 {
		t.Errorf("sessions_open = %v, want 2", got)
	}
	if got := testutil.ToFloat64(sessionOpen.WithLabelValues("tokyo")); got != 0 {
		t.Errorf("session_open{tokyo} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(sessionOpen.WithLabelValues("london")); got != 1 {
		t.Errorf("session_open{london} = %v, want 1", got)
	}

	SetVolatile(true)
	if got := testutil.ToFloat64(volatileGauge); got != 1 {
		t.Errorf("volatility_window = %v, want 1", got)
	}

	var obs FeedObserver
	obs.ObserveFetch("news", nil, time.Millisecond)
	obs.ObserveFetch("news", errors.New("boom"), time.Millisecond)
	obs.ObserveFetch("news", errors.New("boom"), time.Millisecond)
	if got := testutil.ToFloat64(feedFetchTotal.WithLabelValues("news", ResultError)); got != 2 {
		t.Errorf("feed_fetch_total{news,error} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(feedFetchTotal.WithLabelValues("news", ResultSuccess)); got != 1 {
		t.Errorf("feed_fetch_total{news,success} = %v, want 1", got)
	}

	SetStreamClients(4)
	if got := testutil.ToFloat64(streamClients); got != 4 {
		t.Errorf("stream_clients = %v, want 4", got)
	}

	IncExport("pdf", "")
	if got := testutil.ToFloat64(exportTotal.WithLabelValues("pdf", ResultSuccess)); got != 1 {
		t.Errorf("export_total{pdf,success} = %v, want 1", got)
	}

	if n, err := testutil.GatherAndCount(reg, "sessionclock_ticks_total"); err != nil || n != 1 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}
