package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/zng-ui/zvar/pkg/vars"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		frameEvery time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo graph over HTTP and WebSocket",
		Long: `serve starts an HTTP server exposing the demo reactive graph:

  GET  /api/state      current snapshot as JSON
  POST /api/increment   bump the counter
  POST /api/todo        {"text": "..."} appends a todo
  POST /api/progress     kicks off a 1.2s eased progress animation
  GET  /ws              WebSocket stream of snapshots, one per changed frame
  GET  /metrics         Prometheus exposition for the scheduler's counters`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, frameEvery)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8787", "address to listen on")
	cmd.Flags().DurationVar(&frameEvery, "frame", 16*time.Millisecond, "scheduler drain interval")
	return cmd
}

// hub fans out snapshots to every connected WebSocket client, draining the
// scheduler on a fixed tick the way a UI host's frame loop would.
type hub struct {
	app    *vars.App
	demo   *Demo
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub(demo *Demo, logger *slog.Logger) *hub {
	return &hub{
		app:     demo.App,
		demo:    demo,
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// runFrameLoop drains the scheduler every interval and broadcasts a fresh
// snapshot to every connected client whenever the drain actually changed
// something (LastUpdate advancing on at least one of the tracked variables).
func (h *hub) runFrameLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSent vars.UpdateId
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.app.Drain()
			d := h.demo
			lu := max(d.Counter.LastUpdate(), d.Label.LastUpdate(), d.Busy.LastUpdate(),
				d.Progress.LastUpdate(), d.Status.LastUpdate(), d.Todos.LastUpdate())
			if lu != lastSent {
				lastSent = lu
				h.broadcast()
			}
		}
	}
}

func (h *hub) broadcast() {
	snap := h.demo.Snapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("marshal snapshot", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("write to client failed, dropping", "error", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// newDemoServer wires a demo graph, its broadcast hub, and a chi router
// together. Shared by the serve and bench subcommands so bench hammers the
// exact same handler stack a real deployment would run behind.
func newDemoServer(logger *slog.Logger) (*Demo, *hub, http.Handler) {
	app := vars.NewApp()
	demo := NewDemo(app)
	h := newHub(demo, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/state", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(demo.Snapshot())
	})

	r.Post("/api/increment", func(w http.ResponseWriter, req *http.Request) {
		demo.Increment()
		app.Drain()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/api/todo", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		demo.AddTodo(body.Text)
		app.Drain()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/api/progress", func(w http.ResponseWriter, req *http.Request) {
		demo.RunProgress(1200 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			logger.Error("websocket upgrade", "error", err)
			return
		}
		h.add(conn)
		defer h.remove(conn)

		initial, _ := json.Marshal(demo.Snapshot())
		if err := conn.WriteMessage(websocket.TextMessage, initial); err != nil {
			return
		}

		// This connection has nothing to read; just block until the peer
		// closes it, same shape as the teacher's ReadLoop but without a
		// custom frame protocol to decode.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	return demo, h, r
}

func runServe(addr string, frameEvery time.Duration) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	_, h, handler := newDemoServer(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.runFrameLoop(ctx, frameEvery)

	httpServer := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("vardemo serving", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
