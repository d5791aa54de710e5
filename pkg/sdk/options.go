package artguide

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	collectionKey  string
	collectionURL  string
	culture        string
	pageSize       int
	chatTimeout    time.Duration
	artworkTimeout time.Duration

	provider        string // "openai", "gemini", "custom" or "" for none
	llmKey          string
	llmBaseURL      string
	completer       Completer
	extractionModel string
	narrationModel  string

	dailyLimit   int64
	monthlyLimit int64
	budgetReject bool

	addrs    []string
	password string

	heuristicsPath  string
	knownPath       string
	serveKnownFirst bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCollection sets the Rijksmuseum API key.
func WithCollection(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collectionKey = apiKey
	})
}

// WithCollectionBaseURL points the client at another collection endpoint.
func WithCollectionBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collectionURL = baseURL
	})
}

// WithCulture selects the collection language ("en" or "nl").
func WithCulture(culture string) Option {
	return optionFunc(func(c *clientConfig) {
		c.culture = culture
	})
}

// WithPageSize sets how many artworks one search page requests. Default: 15.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithTimeouts bounds one chat request and one artwork detail attempt.
// Zero keeps the default (60s and 30s).
func WithTimeouts(chat, artwork time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.chatTimeout = chat
		c.artworkTimeout = artwork
	})
}

// WithOpenAI enables term extraction and narration through an
// OpenAI-compatible API. An empty baseURL uses api.openai.com.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "openai"
		c.llmKey = apiKey
		c.llmBaseURL = baseURL
	})
}

// WithGemini enables term extraction and narration through Google Gemini.
func WithGemini(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "gemini"
		c.llmKey = apiKey
	})
}

// WithCompleter plugs in a custom LLM provider.
func WithCompleter(cp Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "custom"
		c.completer = cp
	})
}

// WithModels overrides the extraction and narration models.
// Defaults: gpt-4o-mini and gpt-4o.
func WithModels(extraction, narration string) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractionModel = extraction
		c.narrationModel = narration
	})
}

// WithBudget caps LLM token usage per day and per month (0 = unlimited).
// With reject set, calls over budget fail over to heuristics; otherwise
// they only log a warning.
func WithBudget(daily, monthly int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyLimit = daily
		c.monthlyLimit = monthly
		c.budgetReject = reject
	})
}

// WithValkey persists the token budget in a Valkey or Redis instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithHeuristics loads the query heuristics table from a YAML file
// instead of the built-in one.
func WithHeuristics(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.heuristicsPath = path
	})
}

// WithKnownArtworks loads the curated artwork table from a YAML file
// instead of the built-in one.
func WithKnownArtworks(path string, serveFirst bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.knownPath = path
		c.serveKnownFirst = serveFirst
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
