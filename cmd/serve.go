package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/evaczone-cli/internal/batch"
	"github.com/sells-group/evaczone-cli/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for zone checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gc, err := buildGeocoder(cfg)
		if err != nil {
			return eris.Wrap(err, "build geocoder")
		}

		orch := batch.NewOrchestrator(gc, buildFeedClient(cfg),
			batch.WithMaxAddresses(cfg.Batch.MaxAddresses),
			batch.WithConcurrency(cfg.Batch.Concurrency),
		)

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Post("/api/check", handleCheck(orch))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go shutdownOnSignal(ctx, srv, 10*time.Second)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownOnSignal blocks until ctx is canceled, then drains the server.
// The signal context is already dead at that point, so the drain gets its
// own deadline.
func shutdownOnSignal(ctx context.Context, srv *http.Server, timeout time.Duration) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// checkRequest is the POST /api/check body.
type checkRequest struct {
	Addresses []string `json:"addresses"`
}

// checkRow mirrors batch.Result with wire-friendly field names.
type checkRow struct {
	Address             string          `json:"address"`
	EvacuationOrder     string          `json:"evacuation_order"`
	EvacuationWarning   string          `json:"evacuation_warning"`
	NearestMiles        *float64        `json:"distance_to_nearest_zone_miles,omitempty"`
	NearestWarningMiles *float64        `json:"distance_to_nearest_warning_miles,omitempty"`
	Zone                *batch.ZoneInfo `json:"zone,omitempty"`
}

// handleCheck runs one batch per request.
func handleCheck(orch *batch.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zap.L().With(zap.String("request_id", uuid.NewString()))

		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		results, err := orch.Run(r.Context(), req.Addresses)
		if err != nil {
			if errors.Is(err, batch.ErrNoAddresses) {
				http.Error(w, `{"error":"no addresses provided"}`, http.StatusBadRequest)
				return
			}
			if errors.Is(err, geocode.ErrMissingAPIKey) {
				http.Error(w, `{"error":"geocoder not configured"}`, http.StatusServiceUnavailable)
				return
			}
			log.Error("check batch failed", zap.Error(err))
			http.Error(w, `{"error":"zone feed unavailable"}`, http.StatusBadGateway)
			return
		}

		rows := make([]checkRow, 0, len(results))
		for _, res := range results {
			rows = append(rows, checkRow{
				Address:             res.Address,
				EvacuationOrder:     string(res.OrderStatus),
				EvacuationWarning:   string(res.WarningStatus),
				NearestMiles:        res.NearestMiles,
				NearestWarningMiles: res.NearestWarningMiles,
				Zone:                res.Zone,
			})
		}

		log.Info("check batch complete", zap.Int("addresses", len(rows)))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": rows})
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
