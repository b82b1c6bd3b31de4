package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eco-locaux/prospect-cli/internal/auth"
	"github.com/eco-locaux/prospect-cli/internal/importer"
	"github.com/eco-locaux/prospect-cli/internal/scorer"
	"github.com/eco-locaux/prospect-cli/internal/stats"
	"github.com/eco-locaux/prospect-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Migrate(ctx); err != nil {
			return err
		}

		api := &apiServer{store: s}
		r := api.routes()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	store store.Store
}

func (a *apiServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/statistics", a.handleStatistics)
		r.Get("/leads/scores", a.handleScores)

		// Imports usually arrive from scraper batches; a leaky bucket
		// keeps a runaway scraper from hammering the insert path.
		perMin := cfg.Import.RatePerMinute
		if perMin <= 0 {
			perMin = 30
		}
		limiter := rate.NewLimiter(rate.Limit(perMin/60), int(perMin))
		r.With(rateLimit(limiter)).Post("/leads/import", a.handleImport)

		r.Post("/admin/reset-passwords", a.handleResetPasswords)
	})

	return r
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *apiServer) handleStatistics(w http.ResponseWriter, r *http.Request) {
	snap, err := store.Snapshot(r.Context(), a.store)
	if err != nil {
		zap.L().Error("statistics snapshot failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	opts := cfg.Stats.Options()
	if d := r.URL.Query().Get("days"); d != "" {
		days, err := strconv.Atoi(d)
		if err != nil || days <= 0 || days > 365 {
			respondError(w, http.StatusBadRequest, "days must be 1-365")
			return
		}
		opts.EvolutionDays = days
	}

	respondJSON(w, http.StatusOK, stats.Compute(snap, time.Now(), opts))
}

func (a *apiServer) handleScores(w http.ResponseWriter, r *http.Request) {
	leads, err := a.store.ListLeads(r.Context())
	if err != nil {
		zap.L().Error("score listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load leads")
		return
	}

	if tier := r.URL.Query().Get("tier"); tier != "" {
		category, err := scorer.ParseTierCategory(tier)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		leads = scorer.FilterByTier(leads, category)
	}

	sorted := scorer.SortByScore(leads, false)
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if limit < len(sorted) {
			sorted = sorted[:limit]
		}
	}

	respondJSON(w, http.StatusOK, scoreRows(sorted))
}

func (a *apiServer) handleImport(w http.ResponseWriter, r *http.Request) {
	res, err := importer.ParseJSON(r.Body, importer.Options{MaxRows: cfg.Import.MaxRows})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rowErrors := make([]string, 0, len(res.Errors))
	for _, re := range res.Errors {
		rowErrors = append(rowErrors, re.Error())
	}

	if len(res.Leads) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "no valid leads",
			"errors":  rowErrors,
		})
		return
	}

	n, err := a.store.InsertLeads(r.Context(), res.Leads)
	if err != nil {
		zap.L().Error("import insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to insert leads")
		return
	}

	zap.L().Info("api import complete",
		zap.Int("inserted", n),
		zap.Int("rejected", len(res.Errors)),
	)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"imported": n,
		"rejected": len(res.Errors),
		"errors":   rowErrors,
	})
}

func (a *apiServer) handleResetPasswords(w http.ResponseWriter, r *http.Request) {
	results, err := auth.ResetPasswords(r.Context(), a.store)
	if err != nil {
		zap.L().Error("password reset failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to reset passwords")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("response encoding failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
