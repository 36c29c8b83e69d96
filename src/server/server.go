package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// IngestTrigger is the ingestion surface exposed over HTTP.
type IngestTrigger interface {
	Ingest(ctx context.Context, instrument model.Instrument) model.IngestResult
	IngestAll(ctx context.Context) model.IngestSummary
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("Failed to write response body")
	}
}

// NewRouter builds the trigger routes around the given ingestion service.
func NewRouter(cfg *Config, svc IngestTrigger) *chi.Mux {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})

	// Manual trigger routes, bearer-token protected
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cfg.CronAPIKey))

		r.Post("/api/cron/price", func(w http.ResponseWriter, r *http.Request) {
			summary := svc.IngestAll(r.Context())
			writeJSON(w, http.StatusOK, summary)
		})

		r.Post("/api/cron/price/{instrument}", func(w http.ResponseWriter, r *http.Request) {
			instrument, err := model.ParseInstrument(chi.URLParam(r, "instrument"))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{
					"success":   false,
					"message":   err.Error(),
					"timestamp": time.Now().UTC(),
				})
				return
			}

			result := svc.Ingest(r.Context(), instrument)
			writeJSON(w, http.StatusOK, result)
		})
	})

	return r
}

// StartServer serves the trigger routes and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func StartServer(cfg *Config, svc IngestTrigger) {
	r := NewRouter(cfg, svc)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
