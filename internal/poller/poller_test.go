package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/session-clock/internal/api"
	"github.com/rickgao/session-clock/internal/rates"
)

// recordingObserver captures fetch observations.
type recordingObserver struct {
	mu     sync.Mutex
	feeds  []string
	errors int
}

func (o *recordingObserver) ObserveFetch(feed string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.feeds = append(o.feeds, feed)
	if err != nil {
		o.errors++
	}
}

func TestPoller_PollOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","base_code":"USD","rates":{"EUR":0.9}}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, api.WithTimeout(5*time.Second))
	fetcher := FetcherFunc[rates.Table](func(ctx context.Context) (rates.Table, error) {
		return client.GetLatestRates(ctx, "USD")
	})

	var got rates.Table
	handler := HandlerFunc[rates.Table](func(t rates.Table) error {
		got = t
		return nil
	})

	obs := &recordingObserver{}
	p := New[rates.Table](Config{Name: "rates", Interval: time.Hour, Timeout: 5 * time.Second}, fetcher, handler, nil)
	p.SetObserver(obs)

	if err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce failed: %v", err)
	}
	if got.Rates["EUR"] != 0.9 {
		t.Errorf("handler got %v", got.Rates)
	}
	if len(obs.feeds) != 1 || obs.feeds[0] != "rates" || obs.errors != 0 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestPoller_FailureKeepsHandlerUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	fetcher := FetcherFunc[rates.Table](func(ctx context.Context) (rates.Table, error) {
		return client.GetLatestRates(ctx, "USD")
	})

	var calls atomic.Int32
	handler := HandlerFunc[rates.Table](func(rates.Table) error {
		calls.Add(1)
		return nil
	})

	obs := &recordingObserver{}
	p := New[rates.Table](Config{Name: "rates"}, fetcher, handler, nil)
	p.SetObserver(obs)

	err := p.PollOnce(context.Background())
	if !errors.Is(err, api.ErrNetworkUnavailable) {
		t.Errorf("err = %v, want ErrNetworkUnavailable", err)
	}
	if calls.Load() != 0 {
		t.Errorf("handler called %d times, want 0", calls.Load())
	}
	if obs.errors != 1 {
		t.Errorf("observer errors = %d, want 1", obs.errors)
	}
}

func TestPoller_Timeout(t *testing.T) {
	fetcher := FetcherFunc[int](func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	p := New[int](Config{Timeout: 20 * time.Millisecond}, fetcher, nil, nil)

	start := time.Now()
	err := p.PollOnce(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout not applied")
	}
}

func TestPoller_StartStop(t *testing.T) {
	var fetches atomic.Int32
	fetcher := FetcherFunc[int](func(ctx context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})

	var last atomic.Int32
	handler := HandlerFunc[int](func(v int) error {
		last.Store(int32(v))
		return nil
	})

	p := New[int](Config{Name: "test", Interval: 20 * time.Millisecond, Timeout: time.Second}, fetcher, handler, nil)

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(70 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if fetches.Load() < 2 {
		t.Errorf("fetches = %d, want >= 2", fetches.Load())
	}
	if last.Load() != fetches.Load() {
		t.Errorf("last handled = %d, fetches = %d", last.Load(), fetches.Load())
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New[int](Config{}, nil, nil, nil)
	def := DefaultConfig()
	if p.cfg.Interval != def.Interval || p.cfg.Timeout != def.Timeout || p.cfg.Name != def.Name {
		t.Errorf("cfg = %+v, want defaults %+v", p.cfg, def)
	}
}
