package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"koinonia/internal/config"
	"koinonia/internal/db"
	"koinonia/internal/logging"
	"koinonia/internal/metrics"
	"koinonia/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Koinonia starting up",
		"environment", cfg.Server.Environment,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx
	sqlDB, err := db.InitPostgres(cfg.Database)
	if err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	orm, err := db.InitPostgresORM(cfg.Database.DSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("failed to connect to Postgres (GORM): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	if err := db.Migrate(orm); err != nil {
		logging.Error("Schema migration failed", "error", err.Error())
		log.Fatalf("schema migration failed: %v", err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engine := services.NewEngine(cfg, orm, sqlDB, metrics.NewRegistry(promReg))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Health(r.Context()); err != nil {
			logging.Error("Health check failed", "error", err.Error())
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logging.Info("Server starting",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
	)

	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, mux))
}
