package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/config"
	"github.com/stagelist/venue-cli/internal/discovery"
	"github.com/stagelist/venue-cli/internal/enrich"
	"github.com/stagelist/venue-cli/internal/model"
	"github.com/stagelist/venue-cli/internal/store"
)

var (
	servePort  int
	serveEvery time.Duration
)

// serverDeps holds the operations the HTTP surface triggers, swappable in
// tests.
type serverDeps struct {
	enrich    func(ctx context.Context, limit int) (*enrich.Stats, error)
	discover  func(ctx context.Context, city string, max int) (int, error)
	setStatus func(name, location string, status model.DiscoveryStatus) (bool, error)
}

func defaultServerDeps(cfg *config.Config) *serverDeps {
	discovered := store.NewDiscoveredStore(cfg.Store.DiscoveredPath)
	return &serverDeps{
		enrich: func(ctx context.Context, limit int) (*enrich.Stats, error) {
			return enrich.RunOnce(ctx, cfg, limit)
		},
		discover: func(ctx context.Context, city string, max int) (int, error) {
			d := discovery.NewDiscoverer(
				discovered,
				discovery.NewHTTPSearchClient(time.Duration(cfg.Discovery.TimeoutSecs)*time.Second),
				cfg.Discovery,
			)
			added, err := d.Discover(ctx, city, max)
			return len(added), err
		},
		setStatus: discovered.SetStatus,
	}
}

// enrichRunning serializes enrichment passes: the browser engine and the
// store are not safe to share between concurrent runs.
var enrichRunning atomic.Bool

func newRouter(ctx context.Context, deps *serverDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/enrich", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Limit int `json:"limit"`
		}
		if req.ContentLength > 0 {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
		}

		if !enrichRunning.CompareAndSwap(false, true) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "enrichment already running"})
			return
		}

		go func() {
			defer enrichRunning.Store(false)
			stats, err := deps.enrich(ctx, body.Limit)
			if err != nil {
				zap.L().Error("triggered enrichment failed", zap.Error(err))
				return
			}
			zap.L().Info("triggered enrichment complete",
				zap.Int("processed", stats.Processed),
				zap.Int("updated", stats.Updated),
			)
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	})

	r.Post("/api/discover", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			City string `json:"city"`
			Max  int    `json:"max"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.City == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "city is required"})
			return
		}

		go func() {
			added, err := deps.discover(ctx, body.City, body.Max)
			if err != nil {
				zap.L().Error("triggered discovery failed",
					zap.String("city", body.City), zap.Error(err))
				return
			}
			zap.L().Info("triggered discovery complete",
				zap.String("city", body.City), zap.Int("added", added))
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "city": body.City})
	})

	r.Post("/api/discovered/status", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Name     string `json:"name"`
			Location string `json:"location"`
			Status   string `json:"status"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		status := model.DiscoveryStatus(body.Status)
		if status != model.StatusApproved && status != model.StatusRejected && status != model.StatusPending {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be pending, approved, or rejected"})
			return
		}

		found, err := deps.setStatus(body.Name, body.Location, status)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if !found {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no matching discovered venue"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		deps := defaultServerDeps(cfg)

		if serveEvery > 0 {
			go runScheduler(ctx, deps, serveEvery)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(ctx, deps),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// runScheduler triggers a full enrichment pass on a fixed interval, skipping
// ticks that land while a pass is still in flight.
func runScheduler(ctx context.Context, deps *serverDeps, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	zap.L().Info("enrichment scheduler started", zap.Duration("interval", every))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !enrichRunning.CompareAndSwap(false, true) {
				zap.L().Warn("skipping scheduled enrichment, previous pass still running")
				continue
			}
			stats, err := deps.enrich(ctx, 0)
			enrichRunning.Store(false)
			if err != nil {
				zap.L().Error("scheduled enrichment failed", zap.Error(err))
				continue
			}
			zap.L().Info("scheduled enrichment complete",
				zap.Int("processed", stats.Processed),
				zap.Int("updated", stats.Updated),
				zap.Int("remaining", stats.Remaining),
			)
		}
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().DurationVar(&serveEvery, "every", 0, "run a full enrichment pass on this interval (0 = only on request)")
	rootCmd.AddCommand(serveCmd)
}
