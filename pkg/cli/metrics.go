package cli

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch results tracked by the stats counters.
const (
	resultOK           = "ok"
	resultUnknownToken = "unknown_token"
	resultNoCommand    = "no_command"
	resultHandlerError = "handler_error"
)

// stats tracks cumulative shell activity. The metrics listener scrapes
// from another goroutine, so access is mutex-guarded.
type stats struct {
	mu          sync.Mutex
	dispatches  map[string]uint64
	helps       uint64
	completions uint64
}

func (st *stats) dispatch(result string) {
	st.mu.Lock()
	if st.dispatches == nil {
		st.dispatches = make(map[string]uint64)
	}
	st.dispatches[result]++
	st.mu.Unlock()
}

func (st *stats) help() {
	st.mu.Lock()
	st.helps++
	st.mu.Unlock()
}

func (st *stats) completion() {
	st.mu.Lock()
	st.completions++
	st.mu.Unlock()
}

// snapshot copies the counters out for collection.
func (st *stats) snapshot() (dispatches map[string]uint64, helps, completions uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	dispatches = make(map[string]uint64, len(st.dispatches))
	for k, v := range st.dispatches {
		dispatches[k] = v
	}
	return dispatches, st.helps, st.completions
}

// shellCollector implements prometheus.Collector by reading the
// shell's counters on each scrape.
type shellCollector struct {
	stats *stats

	dispatchesTotal  *prometheus.Desc
	helpsTotal       *prometheus.Desc
	completionsTotal *prometheus.Desc
}

func newCollector(st *stats) *shellCollector {
	return &shellCollector{
		stats: st,

		dispatchesTotal: prometheus.NewDesc(
			"opsh_dispatches_total",
			"Token sequences dispatched, by result.",
			[]string{"result"}, nil,
		),
		helpsTotal: prometheus.NewDesc(
			"opsh_help_requests_total",
			"Help renderings requested.",
			nil, nil,
		),
		completionsTotal: prometheus.NewDesc(
			"opsh_completion_requests_total",
			"Completion candidate computations.",
			nil, nil,
		),
	}
}

func (c *shellCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.dispatchesTotal
	ch <- c.helpsTotal
	ch <- c.completionsTotal
}

func (c *shellCollector) Collect(ch chan<- prometheus.Metric) {
	dispatches, helps, completions := c.stats.snapshot()
	for result, count := range dispatches {
		ch <- prometheus.MustNewConstMetric(c.dispatchesTotal, prometheus.CounterValue,
			float64(count), result)
	}
	ch <- prometheus.MustNewConstMetric(c.helpsTotal, prometheus.CounterValue, float64(helps))
	ch <- prometheus.MustNewConstMetric(c.completionsTotal, prometheus.CounterValue, float64(completions))
}

// ServeMetrics exposes the shell's counters over HTTP on an isolated
// Prometheus registry until ctx is cancelled.
func (s *Shell) ServeMetrics(ctx context.Context, addr string) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(newCollector(s.stats))

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}` + "\n"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
