package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/config"
	dbRedis "github.com/kailas-cloud/artguide/internal/db/redis"
	"github.com/kailas-cloud/artguide/internal/domain"
	dartwork "github.com/kailas-cloud/artguide/internal/domain/artwork"
	"github.com/kailas-cloud/artguide/internal/domain/query"
	logpkg "github.com/kailas-cloud/artguide/internal/logger"
	"github.com/kailas-cloud/artguide/internal/metrics"
	budgetrepo "github.com/kailas-cloud/artguide/internal/repository/budget"
	chiTransport "github.com/kailas-cloud/artguide/internal/transport/chi"
	"github.com/kailas-cloud/artguide/internal/transport/gemini"
	"github.com/kailas-cloud/artguide/internal/transport/openai"
	"github.com/kailas-cloud/artguide/internal/transport/rijks"
	artworkuc "github.com/kailas-cloud/artguide/internal/usecase/artwork"
	chatuc "github.com/kailas-cloud/artguide/internal/usecase/chat"
	"github.com/kailas-cloud/artguide/internal/usecase/completion"
	"github.com/kailas-cloud/artguide/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/artguide/internal/usecase/health"
	"github.com/kailas-cloud/artguide/internal/usecase/narrate"
	searchuc "github.com/kailas-cloud/artguide/internal/usecase/search"
	usageuc "github.com/kailas-cloud/artguide/internal/usecase/usage"
	"github.com/kailas-cloud/artguide/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting artguide server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	// Register metrics explicitly (no init())
	metrics.RegisterLLMMetrics()
	metrics.RegisterCollectionMetrics()
	metrics.RegisterHTTPMetrics()

	// Static tables
	table, err := query.LoadTable(cfg.Heuristics.Path)
	if err != nil {
		logger.Fatal("Failed to load heuristics", zap.Error(err))
	}
	known, err := dartwork.LoadKnown(cfg.Artworks.KnownPath)
	if err != nil {
		logger.Fatal("Failed to load known artworks", zap.Error(err))
	}
	logger.Info("Static tables loaded",
		zap.Int("heuristics_version", table.Version),
		zap.Int("known_artworks", known.Len()),
	)

	// Optional database for budget persistence
	var store *dbRedis.Store
	if cfg.Database.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")
	}

	// Single BudgetTracker shared by the completer and the usage service.
	var budget *completion.BudgetTracker
	if cfg.LLM.Enabled() && cfg.LLM.Budget.Limited() {
		action := completion.BudgetActionWarn
		if cfg.LLM.Budget.Action == "reject" {
			action = completion.BudgetActionReject
		}
		budget = completion.NewBudgetTracker(
			cfg.LLM.Provider, cfg.LLM.Budget.DailyTokenLimit, cfg.LLM.Budget.MonthlyTokenLimit, action, logger,
		)
		if store != nil {
			budget.WithStore(ctx, budgetrepo.New(store, 0, 0))
		}
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	var budgetChecker completion.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetChecker = budget
		budgetReader = budget
	}

	llm, err := buildCompleter(ctx, cfg.LLM, budgetChecker, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	collection := rijks.NewClient(&rijks.Config{
		BaseURL: cfg.Collection.BaseURL,
		APIKey:  cfg.Collection.APIKey,
		Culture: cfg.Collection.Culture,
		Logger:  logger,
	})

	// Use cases
	var completer domain.Completer
	var llmChecker healthuc.Checker
	if llm != nil {
		completer = llm
		llmChecker = llm
	}
	searchCfg := domain.DefaultSearchConfig()
	searchCfg.PageSize = cfg.Collection.PageSize

	chatSvc := chatuc.New(
		query.NewNormalizer(table),
		extract.New(completer, extract.Config{
			Model:     cfg.LLM.ExtractionModel,
			MaxTokens: cfg.LLM.ExtractionMaxTokens,
		}),
		searchuc.New(collection, searchCfg),
		narrate.New(completer, table, narrate.Config{
			Model:     cfg.LLM.NarrationModel,
			MaxTokens: cfg.LLM.NarrationMaxTokens,
			Sample:    searchCfg.NarrationSample,
		}),
		time.Duration(cfg.Timeouts.ChatSec)*time.Second,
	)
	artworkSvc := artworkuc.New(collection, known, artworkuc.Config{
		AttemptTimeout:  time.Duration(cfg.Timeouts.ArtworkSec) * time.Second,
		ServeKnownFirst: cfg.Artworks.ServeKnownFirst,
	})
	usageSvc := usageuc.New(budgetReader, cfg.LLM.Provider)

	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	healthSvc := healthuc.New(dbPinger, llmChecker, collection)

	server := chiTransport.NewServer(chatSvc, artworkSvc, usageSvc, healthSvc, env, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.NoCacheMiddleware)
	r.Use(chiTransport.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)
	r.Handle("/*", chiTransport.SPAHandler(cfg.HTTP.StaticDir))

	addr := cfg.HTTP.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCompleter assembles Provider -> Instrumented. Returns nil for provider "none".
func buildCompleter(
	ctx context.Context,
	llmCfg config.LLMConfig,
	budget completion.BudgetChecker,
	logger *zap.Logger,
) (*completion.InstrumentedCompleter, error) {
	var base domain.Completer
	switch llmCfg.Provider {
	case "openai":
		base = openai.NewCompleter(&openai.Config{
			APIKey:   llmCfg.APIKey,
			BaseURL:  llmCfg.BaseURL,
			Provider: llmCfg.Provider,
			Logger:   logger,
		})
	case "gemini":
		g, err := gemini.NewCompleter(ctx, &gemini.Config{
			APIKey:  llmCfg.APIKey,
			BaseURL: llmCfg.BaseURL,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		base = g
	case "none":
		logger.Warn("LLM disabled, serving fallback extraction and narration")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", llmCfg.Provider)
	}

	return completion.NewInstrumentedCompleter(base, llmCfg.Provider, budget, logger), nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
				zap.String("llm_tokens", ww.Header().Get("X-LLM-Tokens")),
			)
		})
	}
}
