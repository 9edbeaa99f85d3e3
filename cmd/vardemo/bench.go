package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// benchProfile is a named combination of client count, run duration, and
// per-client request rate, the same
// shape cmd/vango-bench uses for its fast/standard/stress presets, scaled
// down since this graph has nothing resembling that tool's vdom diff cost.
type benchProfile struct {
	Clients  int
	Duration time.Duration
	RPS      float64
}

var benchProfiles = map[string]benchProfile{
	"fast":     {Clients: 10, Duration: 5 * time.Second, RPS: 5},
	"standard": {Clients: 50, Duration: 15 * time.Second, RPS: 5},
	"stress":   {Clients: 200, Duration: 30 * time.Second, RPS: 10},
}

func benchCmd() *cobra.Command {
	var (
		profileName string
		clients     int
		duration    time.Duration
		jsonOutput  string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Hammer an in-process demo server with concurrent WebSocket clients",
		Long: `bench starts an in-process instance of the same handler stack "serve"
uses, then drives it with concurrent WebSocket clients that each send
increment requests on a timer and measure how long it takes for the
resulting snapshot to come back over the WebSocket stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(strings.TrimSpace(profileName))
			base, ok := benchProfiles[name]
			if !ok {
				return fmt.Errorf("unknown profile %q (want fast|standard|stress)", profileName)
			}
			if clients > 0 {
				base.Clients = clients
			}
			if duration > 0 {
				base.Duration = duration
			}
			return runBench(base, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "standard", "profile: fast|standard|stress")
	cmd.Flags().IntVar(&clients, "clients", 0, "override the profile's client count")
	cmd.Flags().DurationVar(&duration, "duration", 0, "override the profile's run duration")
	cmd.Flags().StringVar(&jsonOutput, "json", "-", "JSON report path ('-' for stdout)")
	return cmd
}

type benchCounters struct {
	requestsSent atomic.Uint64
	framesSeen   atomic.Uint64
	errors       atomic.Uint64
}

func runBench(cfg benchProfile, jsonOutput string) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, h, handler := newDemoServer(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.runFrameLoop(ctx, 16*time.Millisecond)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	baseURL := srv.URL

	var counters benchCounters
	var latencies []time.Duration
	var latenciesMu sync.Mutex

	runCtx, runCancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer runCancel()

	var wg sync.WaitGroup
	wg.Add(cfg.Clients)
	start := time.Now()
	for i := 0; i < cfg.Clients; i++ {
		go func() {
			defer wg.Done()
			runBenchClient(runCtx, wsURL, baseURL, cfg.RPS, &counters, &latencies, &latenciesMu)
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	latenciesMu.Lock()
	sorted := append([]time.Duration(nil), latencies...)
	latenciesMu.Unlock()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	report := buildBenchReport(cfg, elapsed, sorted, &counters)
	writeBenchSummary(os.Stderr, report)
	return writeBenchJSON(jsonOutput, report)
}

// runBenchClient opens one WebSocket connection, sends an increment HTTP
// request on the given rate, and measures how long it takes for the next
// snapshot frame to arrive over the socket.
func runBenchClient(
	ctx context.Context,
	wsURL, baseURL string,
	rps float64,
	counters *benchCounters,
	latencies *[]time.Duration,
	latenciesMu *sync.Mutex,
) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		counters.errors.Add(1)
		return
	}
	defer conn.Close()

	// Drain the initial snapshot frame sent right after upgrade.
	conn.ReadMessage()

	period := time.Duration(float64(time.Second) / rps)
	client := &http.Client{Timeout: 5 * time.Second}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()
		resp, err := client.Post(baseURL+"/api/increment", "application/json", nil)
		if err != nil {
			counters.errors.Add(1)
			return
		}
		resp.Body.Close()
		counters.requestsSent.Add(1)

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			counters.errors.Add(1)
			return
		}
		counters.framesSeen.Add(1)

		rtt := time.Since(start)
		latenciesMu.Lock()
		*latencies = append(*latencies, rtt)
		latenciesMu.Unlock()

		if sleep := period - time.Since(start); sleep > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(sleep):
			}
		}
	}
}

type benchReport struct {
	Clients        int     `json:"clients"`
	DurationMS     int64   `json:"duration_ms"`
	RequestsSent   uint64  `json:"requests_sent"`
	FramesSeen     uint64  `json:"frames_seen"`
	Errors         uint64  `json:"errors"`
	RequestsPerSec float64 `json:"requests_per_sec"`
	LatencyMinMS   float64 `json:"latency_min_ms"`
	LatencyP50MS   float64 `json:"latency_p50_ms"`
	LatencyP95MS   float64 `json:"latency_p95_ms"`
	LatencyMaxMS   float64 `json:"latency_max_ms"`
	GOMAXPROCS     int     `json:"gomaxprocs"`
}

func buildBenchReport(cfg benchProfile, elapsed time.Duration, sorted []time.Duration, counters *benchCounters) benchReport {
	seconds := math.Max(0.001, elapsed.Seconds())
	report := benchReport{
		Clients:        cfg.Clients,
		DurationMS:     elapsed.Milliseconds(),
		RequestsSent:   counters.requestsSent.Load(),
		FramesSeen:     counters.framesSeen.Load(),
		Errors:         counters.errors.Load(),
		RequestsPerSec: float64(counters.requestsSent.Load()) / seconds,
		GOMAXPROCS:     runtime.GOMAXPROCS(0),
	}
	if len(sorted) > 0 {
		report.LatencyMinMS = ms(sorted[0])
		report.LatencyP50MS = ms(percentile(sorted, 0.50))
		report.LatencyP95MS = ms(percentile(sorted, 0.95))
		report.LatencyMaxMS = ms(sorted[len(sorted)-1])
	}
	return report
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func writeBenchSummary(w io.Writer, r benchReport) {
	fmt.Fprintln(w, "=== vardemo bench ===")
	fmt.Fprintf(w, "clients: %d  duration: %s\n", r.Clients, time.Duration(r.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "requests: %d (%.1f/s)  frames seen: %d  errors: %d\n", r.RequestsSent, r.RequestsPerSec, r.FramesSeen, r.Errors)
	fmt.Fprintf(w, "latency: min %.2fms p50 %.2fms p95 %.2fms max %.2fms\n", r.LatencyMinMS, r.LatencyP50MS, r.LatencyP95MS, r.LatencyMaxMS)
}

func writeBenchJSON(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
