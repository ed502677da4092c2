package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"go-university-etl/internal/api"
	"go-university-etl/internal/api/handler"
	"go-university-etl/internal/config"
	"go-university-etl/internal/pipeline"
	"go-university-etl/internal/scheduler"
	"go-university-etl/internal/store"
	"go-university-etl/pkg/router"
)

// @title University ETL API
// @version 1.0
// @description Control surface for the university dataset ETL engine.
// @BasePath /api/v1
func main() {
	// A missing .env is fine; real environments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded configuration from .env")
	}
	cfg := config.Load()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open run store: %v", err)
	}
	defer st.Close()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	extractor := pipeline.NewExtractor(cfg.APIURL, cfg.RequestTimeout, cfg.MaxAttempts, cfg.BaseDelay, cfg.MaxDelay)
	loader := pipeline.NewLoader(cfg.DataDir, cfg.BackupDir, cfg.BackupRetention)
	etl := pipeline.New(extractor, pipeline.NewTransformer(), loader)

	sched := scheduler.New(etl, st, cfg.ScheduleHour, cfg.ScheduleMinute, loc, cfg.HistoryCap)
	if cfg.AutoStart {
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
	}

	r := router.New()
	api.RegisterRoutes(r, handler.New(sched, loader, st))
	r.Start(cfg.Addr)
}
