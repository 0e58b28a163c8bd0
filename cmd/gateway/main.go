package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/mind-engage/mindengage-papers/internal/api/http"
	"github.com/mind-engage/mindengage-papers/internal/audit"
	auth "github.com/mind-engage/mindengage-papers/internal/auth/middleware"
	"github.com/mind-engage/mindengage-papers/internal/config"
	"github.com/mind-engage/mindengage-papers/internal/db"
	"github.com/mind-engage/mindengage-papers/internal/export"
	_ "github.com/mind-engage/mindengage-papers/internal/export/delimited"
	_ "github.com/mind-engage/mindengage-papers/internal/export/docx"
	_ "github.com/mind-engage/mindengage-papers/internal/export/pdf"
	_ "github.com/mind-engage/mindengage-papers/internal/export/printview"
	_ "github.com/mind-engage/mindengage-papers/internal/export/rtf"
	_ "github.com/mind-engage/mindengage-papers/internal/export/structured"
	"github.com/mind-engage/mindengage-papers/internal/question"
	"github.com/mind-engage/mindengage-papers/internal/session"
	"github.com/mind-engage/mindengage-papers/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	hashPw := flag.String("hash-password", "", "print a bcrypt hash for ADMIN_PASS_HASH and exit")
	flag.Parse()
	if *hashPw != "" {
		h, err := auth.HashPassword(*hashPw)
		if err != nil {
			log.Fatalf("hash: %v", err)
		}
		fmt.Fprintln(os.Stdout, h)
		return
	}

	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := question.NewSQLStore(dbh, cfg.DBDriver)
	if cfg.SeedDemo {
		n, err := store.CountQuestions(ctx)
		if err != nil {
			log.Fatalf("count questions: %v", err)
		}
		if n == 0 {
			if err := question.SeedDemo(ctx, store); err != nil {
				log.Fatalf("seed: %v", err)
			}
			log.Printf("[gateway] seeded demo question bank")
		}
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	events := audit.NewEventRepo(dbh, cfg.SiteID)
	exports := export.NewService(bs, events, export.NewHTTPFetcher(cfg.ImageFetchTimeout, cfg.ImageAllowPrivate))

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "X-Export-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Auth:        auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash),
		RequireAuth: cfg.RequireAuth,
		Repo:        store,
		Session:     session.New(store),
		Exports:     exports,
		Blobs:       bs,
		Events:      events,
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s, formats=%v)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, export.Formats())
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
