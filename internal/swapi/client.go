package swapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"rebelintel/internal/components/telemetry"
	"rebelintel/internal/record"
	"rebelintel/lib/textutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

// DefaultBaseUrl is the public mirror of the Star Wars API.
const DefaultBaseUrl = "https://swapi.dev/api"

var tracer = otel.Tracer("internal/swapi")

var meter = otel.Meter("internal/swapi")
var cacheHitCounter, _ = meter.Int64Counter(
	"swapi.cache.hits",
	metric.WithDescription("catalog responses served from the response cache"),
)
var cacheMissCounter, _ = meter.Int64Counter(
	"swapi.cache.misses",
	metric.WithDescription("catalog responses fetched over http"),
)

const (
	report_client_get    = "client.get"
	report_client_cache  = "client.cache"
	report_client_search = "client.search"
)

// ErrNotFound is returned when a search yields no results.
var ErrNotFound = errors.New("no matching catalog entry")

type Category string

const (
	People    Category = "people"
	Planets   Category = "planets"
	Starships Category = "starships"
	Vehicles  Category = "vehicles"
	Species   Category = "species"
	Films     Category = "films"
)

var Categories = []Category{People, Planets, Starships, Vehicles, Species, Films}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == strings.ToLower(strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Cache stores raw response bodies keyed by normalized request url.
type Cache interface {
	Get(ctx context.Context, url string) (body []byte, ok bool, err error)
	Put(ctx context.Context, url string, body []byte) error
}

type ClientOptions struct {
	BaseUrl   string
	Timeout   time.Duration
	UserAgent string
	// RequestsPerSecond <= 0 disables rate limiting
	RequestsPerSecond float64
	// Cache can be nil
	Cache Cache
	// MessageOutput can be nil, when set every http exchange is written to it
	MessageOutput telemetry.MessageOutput
	Telemetry     telemetry.API
}

type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	cache   Cache
	tel     telemetry.API
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(baseUrl.Path, "/") {
		baseUrl.Path += "/"
	}

	tel := telemetry.NewScopedAPI("swapi", opts.Telemetry)

	httpClient := resty.New()
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	httpClient.SetHeader("accept", "application/json")

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}
	telemetry.InstrumentResty(httpClient, tel, "internal/swapi/http", opts.MessageOutput)

	return &Client{
		baseUrl: baseUrl,
		http:    httpClient,
		cache:   opts.Cache,
		tel:     tel,
	}, nil
}

// ResolveUrl turns a reference (absolute url or path relative to the base url)
// plus query params into the normalized url used for requests and cache keys.
func (c *Client) ResolveUrl(ref string, params url.Values) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if !parsed.IsAbs() {
		parsed.Path = strings.TrimPrefix(parsed.Path, "/")
		parsed = c.baseUrl.ResolveReference(parsed)
	}

	query := parsed.Query()
	for k, vals := range params {
		for _, v := range vals {
			query.Add(k, v)
		}
	}
	// Encode sorts by key
	parsed.RawQuery = query.Encode()
	parsed.Fragment = ""
	return parsed.String(), nil
}

// Get fetches the resource at `ref` and decodes it as a record.
func (c *Client) Get(ctx context.Context, ref string, params url.Values) (*record.Record, error) {
	ctx, span := tracer.Start(ctx, "client:Get")
	defer span.End()

	fullUrl, err := c.ResolveUrl(ref, params)
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve url")
		return nil, err
	}
	span.SetAttributes(attribute.String("custom.url", fullUrl))

	body, err := c.fetch(ctx, fullUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}

	value, err := record.Decode(body)
	if err != nil {
		c.tel.ReportBroken(report_client_get, fullUrl, fmt.Errorf("decode: %w", err))
		span.SetStatus(codes.Error, "failed to decode response")
		return nil, fmt.Errorf("decode %s: %w", fullUrl, err)
	}
	rec, ok := value.(*record.Record)
	if !ok {
		span.SetStatus(codes.Error, "response is not an object")
		return nil, fmt.Errorf("decode %s: expected a json object, got %T", fullUrl, value)
	}
	return rec, nil
}

func (c *Client) fetch(ctx context.Context, fullUrl string) ([]byte, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, fullUrl)
		if err != nil {
			c.tel.ReportWarning(report_client_cache, "get", fullUrl, err)
		}
		if ok {
			cacheHitCounter.Add(ctx, 1)
			c.tel.ReportDebug("cache hit", fullUrl)
			return body, nil
		}
		cacheMissCounter.Add(ctx, 1)
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(fullUrl)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", fullUrl, err)
	}
	if res.IsError() {
		c.tel.ReportBroken(report_client_get, fullUrl, res.Status())
		return nil, fmt.Errorf("GET %s: %s", fullUrl, res.Status())
	}
	body := res.Body()

	if c.cache != nil {
		err = c.cache.Put(ctx, fullUrl, body)
		if err != nil {
			c.tel.ReportWarning(report_client_cache, "put", fullUrl, err)
		}
	}
	return body, nil
}

// Resource fetches a catalog resource by url, it lets the client resolve
// homeworld and species references while cleaning.
func (c *Client) Resource(ctx context.Context, url string) (*record.Record, error) {
	return c.Get(ctx, url, nil)
}

// Search returns the first page of results of a search query.
func (c *Client) Search(ctx context.Context, category Category, term string) ([]*record.Record, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("custom.category", string(category)),
		attribute.String("custom.term", term),
	)

	page, err := c.Get(ctx, string(category)+"/", url.Values{"search": {term}})
	if err != nil {
		return nil, fmt.Errorf("search %s %q: %w", category, term, err)
	}

	results, ok := page.List("results")
	if !ok {
		c.tel.ReportBroken(report_client_search, category, term, "missing results")
		return nil, fmt.Errorf("search %s %q: response has no results list", category, term)
	}

	out := make([]*record.Record, 0, len(results))
	for i, r := range results {
		rec, ok := r.(*record.Record)
		if !ok || rec == nil {
			return nil, fmt.Errorf("search %s %q: result %d is not an object", category, term, i)
		}
		out = append(out, rec)
	}
	return out, nil
}

// SearchOne searches and picks the result best matching the term, comparing
// against the name (or title, for films) and model of each result.
func (c *Client) SearchOne(ctx context.Context, category Category, term string) (*record.Record, error) {
	results, err := c.Search(ctx, category, term)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("search %s %q: %w", category, term, ErrNotFound)
	}
	if len(results) == 1 {
		return results[0], nil
	}

	var labels []string
	var owners []int
	for i, r := range results {
		for _, field := range []string{"name", "title", "model"} {
			label, ok := r.String(field)
			if !ok || label == "" {
				continue
			}
			labels = append(labels, label)
			owners = append(owners, i)
		}
	}
	best, similarity := textutil.BestMatch(term, labels)
	if best < 0 {
		return results[0], nil
	}
	c.tel.ReportDebug("search match", category, term, labels[best], similarity)
	return results[owners[best]], nil
}
