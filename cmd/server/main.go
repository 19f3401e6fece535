package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/esteham/eland-portal/internal/auth"
	cascademetrics "github.com/esteham/eland-portal/internal/cascade/metrics"
	"github.com/esteham/eland-portal/internal/explorer"
	explorerhandler "github.com/esteham/eland-portal/internal/explorer/handler"
	"github.com/esteham/eland-portal/internal/geo"
	geoclient "github.com/esteham/eland-portal/internal/geo/client"
	geoservice "github.com/esteham/eland-portal/internal/geo/service"
	geostore "github.com/esteham/eland-portal/internal/geo/store"
	"github.com/esteham/eland-portal/internal/platform/config"
	"github.com/esteham/eland-portal/internal/platform/httpserver"
	"github.com/esteham/eland-portal/internal/platform/logger"
	"github.com/esteham/eland-portal/internal/platform/middleware"
	platformredis "github.com/esteham/eland-portal/internal/platform/redis"
	"github.com/esteham/eland-portal/internal/records"
	recordclient "github.com/esteham/eland-portal/internal/records/client"
	recordstore "github.com/esteham/eland-portal/internal/records/store"
	"github.com/esteham/eland-portal/internal/submission"
	submissionclient "github.com/esteham/eland-portal/internal/submission/client"
	submissionmetrics "github.com/esteham/eland-portal/internal/submission/metrics"
	submissionstore "github.com/esteham/eland-portal/internal/submission/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal domain packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var db *sql.DB
	if cfg.Database.URL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.Database.URL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	cache, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	geoLookup := buildGeoLookup(cfg, db)
	geoLookup = geoservice.NewCached(geoLookup, cache, cfg.Redis.CacheTTL, log)
	recordLookup := buildRecordLookup(cfg, db)
	submitter := buildSubmitter(cfg, db)

	registry := explorer.NewRegistry(explorer.RegistryConfig{
		Geo:               geoLookup,
		Records:           recordLookup,
		Gateway:           submission.NewMockGateway(),
		Submitter:         submitter,
		Logger:            log,
		CascadeMetrics:    cascademetrics.New(),
		SubmissionMetrics: submissionmetrics.New(),
		FeeAmount:         cfg.Payment.FeeAmount,
		IdleTTL:           cfg.Server.SessionIdleTTL,
	})

	stopSweep := make(chan struct{})
	go registry.SweepLoop(time.Minute, stopSweep)
	defer close(stopSweep)

	validator := auth.NewTokenValidator(cfg.Server.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Identify(validator, log))
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	explorerhandler.New(registry, log).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting eland-portal", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildGeoLookup prefers the remote registry, then postgres, then the seeded
// in-memory fixture for development.
func buildGeoLookup(cfg config.Config, db *sql.DB) geo.Lookup {
	if cfg.Lookup.GeoBaseURL != "" {
		return geoclient.New(cfg.Lookup.GeoBaseURL, cfg.Lookup.Timeout)
	}
	if db != nil {
		return geostore.NewPostgres(db)
	}
	mem := geostore.NewInMemory()
	geostore.Seed(mem)
	return mem
}

func buildRecordLookup(cfg config.Config, db *sql.DB) records.Lookup {
	if cfg.Lookup.RecordsBaseURL != "" {
		return recordclient.New(cfg.Lookup.RecordsBaseURL, cfg.Lookup.Timeout)
	}
	if db != nil {
		return recordstore.NewPostgres(db)
	}
	mem := recordstore.NewInMemory()
	recordstore.Seed(mem)
	return mem
}

func buildSubmitter(cfg config.Config, db *sql.DB) submission.Submitter {
	if cfg.Lookup.SubmitBaseURL != "" {
		return submissionclient.New(cfg.Lookup.SubmitBaseURL, cfg.Lookup.Timeout)
	}
	if db != nil {
		return submissionstore.NewPostgres(db)
	}
	return submissionstore.NewInMemory()
}
