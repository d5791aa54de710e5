// Package chi exposes the artguide HTTP API on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	domusage "github.com/kailas-cloud/artguide/internal/domain/usage"
	"github.com/kailas-cloud/artguide/internal/logger"
	"github.com/kailas-cloud/artguide/internal/version"
	chatuc "github.com/kailas-cloud/artguide/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/artguide/internal/usecase/health"
)

// Client-facing error texts.
const (
	msgNoMessage     = "No message provided"
	msgChatFailed    = "Failed to process your request"
	msgInvalidPeriod = "period must be \"day\" or \"month\""
	msgInternal      = "internal error"
)

// errorMessages are the texts an endpoint returns per error class.
type errorMessages struct {
	badRequest string
	internal   string
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msgs errorMessages) bool

// Server serves the HTTP API.
type Server struct {
	chat          ChatService
	artworks      ArtworkResolver
	usage         UsageReporter
	health        HealthChecker
	env           string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	chat ChatService,
	artworks ArtworkResolver,
	usage UsageReporter,
	health HealthChecker,
	env string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		chat:     chat,
		artworks: artworks,
		usage:    usage,
		health:   health,
		env:      env,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, func(m errorMessages) string { return m.badRequest }),
	}
	return s
}

// RegisterRoutes mounts the API endpoints on r.
func (s *Server) RegisterRoutes(r gochi.Router) {
	r.Post("/api/chat", s.Chat)
	r.Get("/api/artwork/{objectNumber}", s.GetArtwork)
	r.Get("/api/usage", s.GetUsage)
	r.Get("/api/test", s.APITest)
	r.Get("/debug-info", s.DebugInfo)
	r.Get("/refresh", s.Refresh)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type chatRequest struct {
	Message string    `json:"message"`
	Page    pageParam `json:"page"`
}

// pageParam accepts a number or numeric string; anything else decodes to 0.
type pageParam int

func (p *pageParam) UnmarshalJSON(data []byte) error {
	*p = 0
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil //nolint:nilerr // unparsable page means page 1
	}
	switch t := v.(type) {
	case float64:
		*p = pageParam(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			*p = pageParam(n)
		}
	}
	return nil
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	msgs := errorMessages{badRequest: msgNoMessage, internal: msgChatFailed}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleDomainError(w, r, errors.Join(domain.ErrInvalidInput, err), msgs)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.chat.Chat(ctx, chatuc.Request{Message: req.Message, Page: int(req.Page)})
	if err != nil {
		s.handleDomainError(w, r, err, msgs)
		return
	}

	setLLMHeaders(w, usage)
	writeJSON(w, http.StatusOK, resp)
}

type artworkResponse struct {
	ArtObject domain.ArtworkDetail `json:"artObject"`
}

// GetArtwork handles GET /api/artwork/{objectNumber}. It always answers 200.
func (s *Server) GetArtwork(w http.ResponseWriter, r *http.Request) {
	var objectNumber string
	raw := gochi.URLParam(r, "objectNumber")
	err := runtime.BindStyledParameterWithOptions("simple", "objectNumber", raw, &objectNumber,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		logger.FromContext(r.Context()).Warn("invalid objectNumber", zap.String("raw", raw), zap.Error(err))
		objectNumber = ""
	}

	detail := s.artworks.Resolve(r.Context(), objectNumber)
	w.Header().Set("X-Response-Time", strconv.FormatInt(time.Now().UnixMilli(), 10))
	writeJSON(w, http.StatusOK, artworkResponse{ArtObject: detail})
}

type budgetJSON struct {
	TokensLimit     int64  `json:"tokens_limit"`
	TokensUsed      int64  `json:"tokens_used"`
	TokensRemaining int64  `json:"tokens_remaining"`
	IsExhausted     bool   `json:"is_exhausted"`
	ResetsAt        string `json:"resets_at"`
}

type usageResponse struct {
	Period      string     `json:"period"`
	Provider    string     `json:"provider,omitempty"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`
	Budget      budgetJSON `json:"budget"`
}

// GetUsage handles GET /api/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		s.handleDomainError(w, r, err, errorMessages{badRequest: msgInvalidPeriod, internal: msgInternal})
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	b := report.Budget()
	writeJSON(w, http.StatusOK, usageResponse{
		Period:      string(report.Period()),
		Provider:    report.Provider(),
		PeriodStart: millisToISO(report.PeriodStart()),
		PeriodEnd:   millisToISO(report.PeriodEnd()),
		Budget: budgetJSON{
			TokensLimit:     b.TokensLimit(),
			TokensUsed:      b.TokensUsed(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			ResetsAt:        millisToISO(b.ResetsAt()),
		},
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// DebugInfo handles GET /debug-info: an echo of the request as the server sees it.
func (s *Server) DebugInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"headers":    r.Header,
		"url":        r.URL.RequestURI(),
		"method":     r.Method,
		"ip":         r.RemoteAddr,
		"serverTime": time.Now().UTC().Format(time.RFC3339Nano),
		"env":        map[string]string{"ENV": s.env},
	})
}

// APITest handles GET /api/test.
func (s *Server) APITest(w http.ResponseWriter, r *http.Request) {
	source := r.Header.Get("X-Forwarded-For")
	if source == "" {
		source = r.RemoteAddr
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "API is working",
		"version":    version.String(),
		"serverTime": time.Now().UTC().Format(time.RFC3339Nano),
		"headers":    r.Header,
		"cloudflare": r.Header.Get("Cf-Ray") != "",
		"source":     source,
		"testData": map[string]any{
			"message": "This is test data from the API",
			"success": true,
		},
	})
}

const refreshPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta http-equiv="refresh" content="1;url=/">
  <title>Refreshing...</title>
  <style>
    body { font-family: Arial, sans-serif; text-align: center; padding-top: 50px; }
  </style>
</head>
<body>
  <h2>Refreshing site with latest updates...</h2>
  <p>You will be redirected in a moment.</p>
  <script>
    window.onload = function() {
      localStorage.clear();
      sessionStorage.clear();
      setTimeout(function() {
        window.location.href = '/?nocache=' + Date.now();
      }, 1000);
    }
  </script>
</body>
</html>
`

// Refresh handles GET /refresh: a page that clears client storage and reloads the app.
func (s *Server) Refresh(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(refreshPage))
}

func setLLMHeaders(w http.ResponseWriter, usage *domain.LLMUsage) {
	if usage.Calls() > 0 {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(usage.TotalTokens()))
	}
}

func millisToISO(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, pick func(errorMessages) string) errorHandler {
	return func(w http.ResponseWriter, err error, msgs errorMessages) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, pick(msgs))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, msgs errorMessages) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, msgs) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgs.internal)
}
