package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/trainerlab/fieldlog/internal/api"
	dbstore "github.com/trainerlab/fieldlog/internal/db"
	"github.com/trainerlab/fieldlog/internal/middleware"
	"github.com/trainerlab/fieldlog/internal/services"
	"github.com/trainerlab/fieldlog/internal/utils"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	addr := utils.SafeEnv("FIELDLOG_ADDR", ":8080")
	secret := utils.SafeEnv("FIELDLOG_JWT_SECRET", "fieldlog-dev-secret")
	sqlitePath := utils.SafeEnv("FIELDLOG_SQLITE_PATH", "data/fieldlog.db")
	migrationsDir := os.Getenv("FIELDLOG_MIGRATIONS_DIR")
	staticDir := os.Getenv("FIELDLOG_STATIC_DIR")
	bcryptCost := utils.IntEnv("FIELDLOG_BCRYPT_COST", 10)
	maxConns := utils.IntEnv("FIELDLOG_DB_MAX_CONNS", 10)

	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		log.WithError(err).Fatal("create sqlite dir")
	}
	// foreign_keys is a per-connection pragma; setting it in the DSN makes
	// the driver apply it to every connection the pool opens.
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000&_foreign_keys=1", filepath.ToSlash(sqlitePath))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.WithError(err).Fatal("open sqlite")
	}
	// Bounded pool; requests queue on exhaustion rather than fail.
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)

	if err := dbstore.RunMigrations(sqlDB, migrationsDir); err != nil {
		log.WithError(err).Fatal("run migrations")
	}
	store, err := dbstore.NewSQLiteStore(sqlDB, log)
	if err != nil {
		log.WithError(err).Fatal("init store")
	}
	if adminEmail := os.Getenv("FIELDLOG_ADMIN_EMAIL"); adminEmail != "" {
		if err := store.PromoteAdmin(context.Background(), adminEmail); err != nil {
			log.WithError(err).Warn("admin bootstrap failed")
		}
	}
	if os.Getenv("FIELDLOG_SEED") == "1" {
		if err := store.Seed(context.Background()); err != nil {
			log.WithError(err).Warn("seed failed")
		}
	}

	auth := middleware.NewAuth([]byte(secret), 30*24*time.Hour)
	authSvc := services.NewAuthService(store, auth.SignToken, bcryptCost)
	researchSvc := services.NewResearchService(store)

	r := mux.NewRouter()
	api.NewRouter(auth, authSvc, researchSvc, log).Register(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "Fieldlog API"})
	})

	// Every non-API path falls back to the SPA entry point.
	if staticDir != "" {
		r.PathPrefix("/").Handler(spaHandler{dir: staticDir})
	}

	handler := middleware.RequestLog(log)(middleware.CORS(middleware.SecureHeaders(r)))

	log.WithField("addr", addr).Info("fieldlog server listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

// spaHandler serves files from dir and falls back to index.html for paths
// that the client-side router owns.
type spaHandler struct {
	dir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}
