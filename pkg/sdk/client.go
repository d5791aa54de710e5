package artguide

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/artguide/internal/db/redis"
	"github.com/kailas-cloud/artguide/internal/domain"
	dartwork "github.com/kailas-cloud/artguide/internal/domain/artwork"
	"github.com/kailas-cloud/artguide/internal/domain/query"
	domusage "github.com/kailas-cloud/artguide/internal/domain/usage"
	budgetrepo "github.com/kailas-cloud/artguide/internal/repository/budget"
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
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultExtractionModel  = "gpt-4o-mini"
	defaultNarrationModel   = "gpt-4o"
	extractionMaxTokens     = 400
	narrationMaxTokens      = 1000
)

// Внутренние интерфейсы для подмены в тестах.
type chatUseCase interface {
	Chat(ctx context.Context, req chatuc.Request) (domain.SearchResponse, error)
}

type artworkUseCase interface {
	Resolve(ctx context.Context, objectNumber string) domain.ArtworkDetail
}

// Client is the artguide SDK entry point.
type Client struct {
	store      *dbRedis.Store
	chatSvc    chatUseCase
	artworkSvc artworkUseCase
	healthSvc  healthUseCase
	usageSvc   usageUseCase
	obs        *observer
}

// New creates a Client. When WithValkey is set the provided context is used
// for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		extractionModel: defaultExtractionModel,
		narrationModel:  defaultNarrationModel,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.provider == "custom" && cfg.completer == nil {
		return nil, errors.New("artguide: WithCompleter requires a non-nil completer")
	}
	if (cfg.provider == "openai" || cfg.provider == "gemini") && cfg.llmKey == "" {
		return nil, fmt.Errorf("artguide: %s api key required", cfg.provider)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store *dbRedis.Store
	if len(cfg.addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("artguide: create store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("artguide: database not ready: %w", err)
		}
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	table, err := query.LoadTable(cfg.heuristicsPath)
	if err != nil {
		return nil, fmt.Errorf("artguide: %w", err)
	}
	known, err := dartwork.LoadKnown(cfg.knownPath)
	if err != nil {
		return nil, fmt.Errorf("artguide: %w", err)
	}

	// Internal services log through zap; SDK operations log through slog.
	log := zap.NewNop()

	var budget *completion.BudgetTracker
	if cfg.provider != "" && (cfg.dailyLimit > 0 || cfg.monthlyLimit > 0) {
		action := completion.BudgetActionWarn
		if cfg.budgetReject {
			action = completion.BudgetActionReject
		}
		budget = completion.NewBudgetTracker(cfg.provider, cfg.dailyLimit, cfg.monthlyLimit, action, log)
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

	completer, err := buildCompleter(ctx, cfg, budgetChecker, log)
	if err != nil {
		return nil, err
	}

	collection := rijks.NewClient(&rijks.Config{
		BaseURL: cfg.collectionURL,
		APIKey:  cfg.collectionKey,
		Culture: cfg.culture,
		Logger:  log,
	})

	var llm domain.Completer
	var llmChecker healthuc.Checker
	if completer != nil {
		llm = completer
		llmChecker = completer
	}

	searchCfg := domain.DefaultSearchConfig()
	if cfg.pageSize > 0 {
		searchCfg.PageSize = cfg.pageSize
	}

	chatSvc := chatuc.New(
		query.NewNormalizer(table),
		extract.New(llm, extract.Config{Model: cfg.extractionModel, MaxTokens: extractionMaxTokens}),
		searchuc.New(collection, searchCfg),
		narrate.New(llm, table, narrate.Config{
			Model:     cfg.narrationModel,
			MaxTokens: narrationMaxTokens,
			Sample:    searchCfg.NarrationSample,
		}),
		cfg.chatTimeout,
	)
	artworkSvc := artworkuc.New(collection, known, artworkuc.Config{
		AttemptTimeout:  cfg.artworkTimeout,
		ServeKnownFirst: cfg.serveKnownFirst,
	})

	provider := cfg.provider
	if provider == "" {
		provider = "none"
	}

	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}

	return &Client{
		store:      store,
		chatSvc:    chatSvc,
		artworkSvc: artworkSvc,
		healthSvc:  healthuc.New(dbPinger, llmChecker, collection),
		usageSvc:   usageuc.New(budgetReader, provider),
		obs:        obs,
	}, nil
}

// buildCompleter returns nil when no LLM is configured.
func buildCompleter(
	ctx context.Context, cfg *clientConfig, budget completion.BudgetChecker, log *zap.Logger,
) (*completion.InstrumentedCompleter, error) {
	var base domain.Completer
	switch cfg.provider {
	case "":
		return nil, nil
	case "openai":
		base = openai.NewCompleter(&openai.Config{
			APIKey:   cfg.llmKey,
			BaseURL:  cfg.llmBaseURL,
			Provider: cfg.provider,
			Logger:   log,
		})
	case "gemini":
		g, err := gemini.NewCompleter(ctx, &gemini.Config{APIKey: cfg.llmKey, Logger: log})
		if err != nil {
			return nil, fmt.Errorf("artguide: gemini: %w", err)
		}
		base = g
	case "custom":
		base = &completerAdapter{inner: cfg.completer}
	default:
		return nil, fmt.Errorf("artguide: unknown llm provider %q", cfg.provider)
	}
	return completion.NewInstrumentedCompleter(base, cfg.provider, budget, log), nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Chat answers a natural-language question with one page of matching
// artworks and a narrated reply. The only error is ErrInvalidInput for a
// blank message; upstream failures degrade to fallback content.
func (c *Client) Chat(ctx context.Context, message string, page int) (res SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("chat", start, err) }()

	resp, err := c.chatSvc.Chat(ctx, chatuc.Request{Message: message, Page: page})
	if err != nil {
		return SearchResponse{}, fmt.Errorf("chat: %w", err)
	}
	c.obs.observeChat(resp)
	return searchResponseFromDomain(resp), nil
}

// ChatWithUsage is Chat that also reports the LLM tokens the request spent.
func (c *Client) ChatWithUsage(ctx context.Context, message string, page int) (SearchResponse, TokenUsage, error) {
	ctx, u := domain.NewContextWithUsage(ctx)
	res, err := c.Chat(ctx, message, page)
	return res, TokenUsage{Calls: u.Calls(), Tokens: u.TotalTokens()}, err
}

// Artwork returns the detail record for one object number. It never fails:
// an unreachable collection yields the curated entry or placeholder text.
func (c *Client) Artwork(ctx context.Context, objectNumber string) ArtworkDetail {
	start := time.Now()
	defer func() { c.obs.observe("artwork", start, nil) }()

	return artworkDetailFromDomain(c.artworkSvc.Resolve(ctx, objectNumber))
}

// Usage returns the LLM token budget for the given period ("day" or "month").
func (c *Client) Usage(ctx context.Context, period UsagePeriod) (rep UsageReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, err) }()

	p, err := domusage.ParsePeriod(string(period))
	if err != nil {
		return UsageReport{}, fmt.Errorf("usage: %w", err)
	}
	return usageReportFromDomain(c.usageSvc.GetReport(ctx, p)), nil
}
