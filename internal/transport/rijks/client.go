// Package rijks is an HTTP client for the Rijksmuseum collection API.
package rijks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/metrics"
)

const (
	service        = "rijksmuseum"
	defaultBaseURL = "https://www.rijksmuseum.nl"
	defaultCulture = "en"
	maxBodyBytes   = 4 << 20
)

// Config holds the collection API settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Culture    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the collection API.
type Client struct {
	baseURL string
	apiKey  string
	culture string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a collection API client.
func NewClient(cfg *Config) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		culture: cfg.Culture,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.culture == "" {
		c.culture = defaultCulture
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Search returns one page of image-bearing artworks ordered by relevance.
func (c *Client) Search(ctx context.Context, q domain.CollectionQuery) ([]domain.ArtworkSummary, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", q.Terms)
	params.Set("format", "json")
	params.Set("imgonly", "true")
	params.Set("p", strconv.Itoa(max(q.Page, 1)))
	if q.PageSize > 0 {
		params.Set("ps", strconv.Itoa(q.PageSize))
	}
	params.Set("s", "relevance")

	var resp searchResponse
	if err := c.get(ctx, "search", c.collectionURL()+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.ArtObjects == nil {
		return []domain.ArtworkSummary{}, nil
	}
	return resp.ArtObjects, nil
}

// Detail fetches the raw detail record of one artwork.
func (c *Client) Detail(ctx context.Context, objectNumber string) (*domain.ArtworkRecord, error) {
	if objectNumber == "" {
		return nil, fmt.Errorf("empty object number: %w", domain.ErrInvalidInput)
	}
	segment, err := runtime.StyleParamWithLocation("simple", false, "objectNumber", runtime.ParamLocationPath, objectNumber)
	if err != nil {
		return nil, fmt.Errorf("style object number: %w", err)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("format", "json")

	var resp detailResponse
	if err := c.get(ctx, "detail", c.collectionURL()+"/"+segment+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.ArtObject == nil {
		return nil, fmt.Errorf("detail %s: missing artObject: %w", objectNumber, domain.ErrMalformedUpstream)
	}
	return resp.ArtObject.toRecord(), nil
}

// HealthCheck verifies the API answers a minimal search.
func (c *Client) HealthCheck(ctx context.Context) error {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("format", "json")
	params.Set("ps", "1")

	var resp searchResponse
	return c.get(ctx, "health", c.collectionURL()+"?"+params.Encode(), &resp)
}

func (c *Client) collectionURL() string {
	return c.baseURL + "/api/" + c.culture + "/collection"
}

func (c *Client) get(ctx context.Context, op, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.CollectionRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CollectionRequestsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%s %s: %v: %w", service, op, err, domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.CollectionRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%s: %w", op, domain.NewUpstreamStatus(service, resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		metrics.CollectionRequestsTotal.WithLabelValues(op, "malformed").Inc()
		return fmt.Errorf("%s %s: decode: %v: %w", service, op, err, domain.ErrMalformedUpstream)
	}

	metrics.CollectionRequestsTotal.WithLabelValues(op, "success").Inc()
	c.logger.Debug("collection request",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
