package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/domain/query"
	domusage "github.com/kailas-cloud/artguide/internal/domain/usage"
	chatuc "github.com/kailas-cloud/artguide/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/artguide/internal/usecase/health"
)

// --- Fakes ---

type fakeChat struct {
	resp   domain.SearchResponse
	err    error
	tokens int
	got    chatuc.Request
}

func (f *fakeChat) Chat(ctx context.Context, req chatuc.Request) (domain.SearchResponse, error) {
	f.got = req
	if f.tokens > 0 {
		domain.UsageFromContext(ctx).AddTokens(f.tokens)
	}
	return f.resp, f.err
}

type fakeResolver struct {
	got string
}

func (f *fakeResolver) Resolve(_ context.Context, objectNumber string) domain.ArtworkDetail {
	f.got = objectNumber
	return domain.ArtworkDetail{ObjectNumber: objectNumber, Title: "The Night Watch", Dimensions: []string{}}
}

type fakeUsage struct {
	got domusage.Period
}

func (f *fakeUsage) GetReport(_ context.Context, p domusage.Period) domusage.Report {
	f.got = p
	return domusage.NewReport(p, 1700000000000, 1700086400000, "openai",
		domusage.NewBudget(1000, 400, 600, 1700086400000))
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(context.Context) healthuc.Report { return f.report }

type fixture struct {
	chat     *fakeChat
	resolver *fakeResolver
	usage    *fakeUsage
	health   *fakeHealth
	router   http.Handler
}

func newFixture(chat ChatService) *fixture {
	f := &fixture{
		resolver: &fakeResolver{},
		usage:    &fakeUsage{},
		health:   &fakeHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}},
	}
	if fc, ok := chat.(*fakeChat); ok {
		f.chat = fc
	}
	s := NewServer(chat, f.resolver, f.usage, f.health, "test", zap.NewNop())
	r := gochi.NewRouter()
	r.Use(NoCacheMiddleware)
	s.RegisterRoutes(r)
	f.router = r
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

// --- Pipeline fakes for the real chat service ---

type nopExtractor struct{}

func (nopExtractor) Extract(_ context.Context, message string) domain.Extraction {
	return domain.Extraction{SearchTerms: message, RelevanceTags: []string{message}}
}

type nopSearcher struct{}

func (nopSearcher) Search(context.Context, domain.SearchDirective, int) []domain.ArtworkSummary {
	return nil
}
func (nopSearcher) HasMore(int, int, int) bool { return false }

type nopNarrator struct{}

func (nopNarrator) Narrate(context.Context, string, []domain.ArtworkSummary) domain.Narration {
	return domain.Narration{}
}

// --- Tests ---

func TestChat_EmptyMessage_400(t *testing.T) {
	svc := chatuc.New(query.NewNormalizer(query.DefaultTable()), nopExtractor{}, nopSearcher{}, nopNarrator{}, 0)
	f := newFixture(svc)

	for _, body := range []string{`{"message":""}`, `{}`, `{"message":"   "}`} {
		rr := f.do(http.MethodPost, "/api/chat", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", body, rr.Code)
			continue
		}
		if msg := decodeError(t, rr); msg != "No message provided" {
			t.Errorf("%s: error = %q", body, msg)
		}
	}
}

func TestChat_UndecodableBody_400(t *testing.T) {
	f := newFixture(&fakeChat{})
	rr := f.do(http.MethodPost, "/api/chat", `{"message":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "No message provided" {
		t.Errorf("error = %q", msg)
	}
}

func TestChat_InternalError_500(t *testing.T) {
	f := newFixture(&fakeChat{err: errors.New("boom")})
	rr := f.do(http.MethodPost, "/api/chat", `{"message":"tulips"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "Failed to process your request" {
		t.Errorf("error = %q", msg)
	}
}

func TestChat_OK(t *testing.T) {
	fc := &fakeChat{
		resp: domain.SearchResponse{
			Artworks:       []domain.ArtworkSummary{{ObjectNumber: "SK-C-5", Title: "The Night Watch"}},
			RelevanceTags:  []string{"militia"},
			Response:       "A famous group portrait.",
			HasMoreResults: true,
		},
		tokens: 321,
	}
	f := newFixture(fc)

	rr := f.do(http.MethodPost, "/api/chat", `{"message":"night watch","page":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if fc.got.Message != "night watch" || fc.got.Page != 2 {
		t.Errorf("unexpected request %+v", fc.got)
	}
	if rr.Header().Get("X-LLM-Tokens") != "321" {
		t.Errorf("X-LLM-Tokens = %q", rr.Header().Get("X-LLM-Tokens"))
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"artworks", "relevanceTags", "response", "hasMoreResults"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if body["hasMoreResults"] != true {
		t.Errorf("hasMoreResults = %v", body["hasMoreResults"])
	}
}

func TestChat_PageForms(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{`{"message":"x"}`, 0},
		{`{"message":"x","page":"3"}`, 3},
		{`{"message":"x","page":"abc"}`, 0},
		{`{"message":"x","page":null}`, 0},
		{`{"message":"x","page":4}`, 4},
	}
	for _, tc := range tests {
		fc := &fakeChat{}
		f := newFixture(fc)
		rr := f.do(http.MethodPost, "/api/chat", tc.body)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d", tc.body, rr.Code)
			continue
		}
		if fc.got.Page != tc.want {
			t.Errorf("%s: page = %d, want %d", tc.body, fc.got.Page, tc.want)
		}
		if rr.Header().Get("X-LLM-Tokens") != "" {
			t.Errorf("%s: unexpected token header", tc.body)
		}
	}
}

func TestGetArtwork(t *testing.T) {
	f := newFixture(&fakeChat{})

	rr := f.do(http.MethodGet, "/api/artwork/SK-C-5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	if f.resolver.got != "SK-C-5" {
		t.Errorf("resolver got %q", f.resolver.got)
	}

	var body struct {
		ArtObject domain.ArtworkDetail `json:"artObject"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ArtObject.Title != "The Night Watch" || body.ArtObject.ObjectNumber != "SK-C-5" {
		t.Errorf("unexpected artObject %+v", body.ArtObject)
	}
	if rr.Header().Get("X-Response-Time") == "" {
		t.Error("missing X-Response-Time")
	}
}

func TestGetUsage(t *testing.T) {
	f := newFixture(&fakeChat{})

	rr := f.do(http.MethodGet, "/api/usage?period=month", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	if f.usage.got != domusage.PeriodMonth {
		t.Errorf("period = %q", f.usage.got)
	}

	var body usageResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Provider != "openai" || body.Budget.TokensRemaining != 600 || body.Budget.TokensUsed != 400 {
		t.Errorf("unexpected body %+v", body)
	}
	if body.PeriodStart != "2023-11-14T22:13:20Z" {
		t.Errorf("period_start = %q", body.PeriodStart)
	}
}

func TestGetUsage_DefaultDay(t *testing.T) {
	f := newFixture(&fakeChat{})
	if rr := f.do(http.MethodGet, "/api/usage", ""); rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	if f.usage.got != domusage.PeriodDay {
		t.Errorf("period = %q", f.usage.got)
	}
}

func TestGetUsage_InvalidPeriod_400(t *testing.T) {
	f := newFixture(&fakeChat{})
	rr := f.do(http.MethodGet, "/api/usage?period=year", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rr.Code)
	}
	if msg := decodeError(t, rr); !strings.Contains(msg, "period") {
		t.Errorf("error = %q", msg)
	}
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(&fakeChat{})
	if rr := f.do(http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("healthy: got %d", rr.Code)
	}

	f.health.report = healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"llm": healthuc.CheckError},
	}
	rr := f.do(http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded: got %d", rr.Code)
	}
	var body healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" || body.Checks["llm"] != "error" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestNoCacheHeaders(t *testing.T) {
	f := newFixture(&fakeChat{})
	rr := f.do(http.MethodGet, "/api/test", "")

	want := map[string]string{
		"Cache-Control": "no-cache, no-store, must-revalidate",
		"Pragma":        "no-cache",
		"Expires":       "0",
	}
	for k, v := range want {
		if got := rr.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	f := newFixture(&fakeChat{})

	rr := f.do(http.MethodGet, "/debug-info?x=1", "")
	var debug map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&debug); err != nil {
		t.Fatalf("decode debug-info: %v", err)
	}
	if debug["method"] != "GET" || debug["url"] != "/debug-info?x=1" {
		t.Errorf("unexpected debug-info %v", debug)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/test", http.NoBody)
	req.Header.Set("Cf-Ray", "abc")
	rr = httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	var test map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&test); err != nil {
		t.Fatalf("decode api/test: %v", err)
	}
	if test["status"] != "API is working" || test["cloudflare"] != true {
		t.Errorf("unexpected api/test %v", test)
	}
}

func TestRefresh(t *testing.T) {
	f := newFixture(&fakeChat{})
	rr := f.do(http.MethodGet, "/refresh", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content type %q", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "localStorage.clear()") {
		t.Error("refresh page must clear storage")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(&fakeChat{})
	if rr := f.do(http.MethodGet, "/metrics", ""); rr.Code != http.StatusOK {
		t.Errorf("got %d", rr.Code)
	}
}
