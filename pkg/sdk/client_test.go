package artguide

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/artguide/internal/domain"
)

func TestNew_NilCompleter(t *testing.T) {
	_, err := New(context.Background(), WithCompleter(nil))
	if err == nil {
		t.Fatal("expected error for nil completer")
	}
}

func TestNew_MissingAPIKey(t *testing.T) {
	for _, opt := range []Option{WithOpenAI("", ""), WithGemini("")} {
		if _, err := New(context.Background(), opt); err == nil {
			t.Error("expected error without api key")
		}
	}
}

func TestNew_BadHeuristicsPath(t *testing.T) {
	_, err := New(context.Background(), WithHeuristics("/nonexistent/rules.yaml"))
	if err == nil {
		t.Fatal("expected error for missing heuristics file")
	}
}

func TestNew_WithoutLLM(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	rep, err := c.Usage(context.Background(), PeriodDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Provider != "none" {
		t.Errorf("provider = %q, want none", rep.Provider)
	}
	if rep.Budget.TokensRemaining != -1 {
		t.Errorf("remaining = %d, want -1 (unlimited)", rep.Budget.TokensRemaining)
	}
}

func TestBuildCompleter_Unknown(t *testing.T) {
	_, err := buildCompleter(context.Background(), &clientConfig{provider: "mistral"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestCompleterAdapter(t *testing.T) {
	var got Prompt
	mock := &mockCompleter{
		fn: func(_ context.Context, p Prompt) (Completion, error) {
			got = p
			return Completion{Text: "ok", PromptTokens: 3, OutputTokens: 2, TotalTokens: 5}, nil
		},
	}

	adapter := &completerAdapter{inner: mock}
	out, err := adapter.Complete(context.Background(), domain.Prompt{Model: "m", User: "hi", MaxTokens: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "m" || got.User != "hi" || got.MaxTokens != 9 {
		t.Errorf("prompt = %+v", got)
	}
	if out.Text != "ok" || out.TotalTokens != 5 {
		t.Errorf("completion = %+v", out)
	}
}

func TestCompleterAdapter_Error(t *testing.T) {
	mock := &mockCompleter{
		fn: func(_ context.Context, _ Prompt) (Completion, error) {
			return Completion{}, errors.New("provider down")
		},
	}

	adapter := &completerAdapter{inner: mock}
	if _, err := adapter.Complete(context.Background(), domain.Prompt{}); err == nil {
		t.Fatal("expected error from adapter")
	}
}

// collectionServer serves a fixed search page and fails every detail request.
func collectionServer(t *testing.T, searchTerms *atomic.Value) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/en/collection":
			searchTerms.Store(r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"count":2,"artObjects":[
				{"objectNumber":"SK-A-1","title":"Flowers in a Vase","principalOrFirstMaker":"Jan van Huysum",
				 "webImage":{"url":"https://img/1.jpg","width":10,"height":20}},
				{"objectNumber":"SK-A-2","title":"Still Life","principalOrFirstMaker":"Rachel Ruysch",
				 "webImage":{"url":"https://img/2.jpg"}}
			]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_EndToEnd(t *testing.T) {
	var terms atomic.Value
	srv := collectionServer(t, &terms)

	llm := &mockCompleter{
		fn: func(_ context.Context, p Prompt) (Completion, error) {
			if p.Model == "extract" {
				return Completion{Text: `{"searchTerms":"flower still life","relevanceTags":["flowers"]}`, TotalTokens: 40}, nil
			}
			return Completion{Text: "Two lush bouquets.", TotalTokens: 60}, nil
		},
	}

	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	c, err := New(context.Background(),
		WithCollection("key"),
		WithCollectionBaseURL(srv.URL),
		WithCompleter(llm),
		WithModels("extract", "narrate"),
		WithTimeouts(5*time.Second, time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithPrometheus(reg),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	res, usage, err := c.ChatWithUsage(context.Background(), "show me flower paintings", 1)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got, _ := terms.Load().(string); got != "flower still life" {
		t.Errorf("search terms = %q", got)
	}
	if len(res.Artworks) != 2 {
		t.Fatalf("artworks = %d, want 2", len(res.Artworks))
	}
	if res.Response != "Two lush bouquets." {
		t.Errorf("response = %q", res.Response)
	}
	if len(res.RelevanceTags) != 1 || res.RelevanceTags[0] != "flowers" {
		t.Errorf("tags = %v", res.RelevanceTags)
	}
	if res.HasMoreResults {
		t.Error("two results on page 1 must not report more")
	}
	if usage.Calls != 2 || usage.Tokens != 100 {
		t.Errorf("usage = %+v", usage)
	}

	// Detail upstream answers 502: the curated entry is served instead.
	d := c.Artwork(context.Background(), "SK-C-5")
	if d.Title != "The Night Watch" {
		t.Errorf("title = %q, want known entry", d.Title)
	}

	n, err := testutil.GatherAndCount(reg, "artguide_sdk_operations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Errorf("operation series = %d, want 2 (chat, artwork)", n)
	}
	if !strings.Contains(logs.String(), "op=chat") {
		t.Errorf("expected chat operation log, got %q", logs.String())
	}
	if got := testutil.ToFloat64(c.obs.metrics.chatOutcomes.WithLabelValues("narrated", "llm")); got != 1 {
		t.Errorf("narrated chat outcomes = %f, want 1", got)
	}
}

func TestObserver_ChatOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	o, err := newObserver(slog.New(slog.NewTextHandler(&logs, nil)), reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	o.observeChat(domain.SearchResponse{Outcome: domain.OutcomeNarrationFallback, ExtractionFallback: true})
	o.observeChat(domain.SearchResponse{Outcome: domain.OutcomeNoResults})
	o.observeChat(domain.SearchResponse{Outcome: domain.OutcomeNarrated})

	if got := testutil.ToFloat64(o.metrics.chatOutcomes.WithLabelValues("narration_fallback", "fallback")); got != 1 {
		t.Errorf("degraded outcomes = %f, want 1", got)
	}
	if got := testutil.ToFloat64(o.metrics.chatOutcomes.WithLabelValues("no_results", "llm")); got != 1 {
		t.Errorf("no_results outcomes = %f, want 1", got)
	}
	n, err := testutil.GatherAndCount(reg, "artguide_sdk_chat_outcomes_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 3 {
		t.Errorf("outcome series = %d, want 3", n)
	}

	// Only the degraded reply is logged at the default Info level.
	if strings.Count(logs.String(), "chat degraded") != 1 || strings.Contains(logs.String(), "chat answered") {
		t.Errorf("unexpected logs: %q", logs.String())
	}
}

func TestClient_ChatWithoutLLMReportsFallbacks(t *testing.T) {
	var terms atomic.Value
	srv := collectionServer(t, &terms)

	reg := prometheus.NewRegistry()
	c, err := New(context.Background(),
		WithCollection("key"),
		WithCollectionBaseURL(srv.URL),
		WithPrometheus(reg),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.Chat(context.Background(), "flower paintings", 1); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got := testutil.ToFloat64(c.obs.metrics.chatOutcomes.WithLabelValues("narration_fallback", "fallback")); got != 1 {
		t.Errorf("fallback chat outcomes = %f, want 1", got)
	}
}

func TestClient_BlankMessage(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	_, err = c.Chat(context.Background(), "  ", 1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("expected the existing collector to be reused")
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("chat", time.Now(), nil) // must not panic
	o.observeChat(domain.SearchResponse{})
}
