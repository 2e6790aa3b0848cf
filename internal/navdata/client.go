package navdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/internal/metrics"
	"github.com/rpgo/fund-calculator/internal/tracing"
)

// DefaultBaseURL is the public mutual fund NAV API.
const DefaultBaseURL = "https://api.mfapi.in"

// maxPayloadBytes bounds a single response; the full scheme list is a few MB.
const maxPayloadBytes = 64 << 20

// Logger is the leveled logger used across the module.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Source fetches scheme data from upstream.
type Source interface {
	FetchCatalog(ctx context.Context) ([]domain.Instrument, error)
	FetchHistory(ctx context.Context, instrumentID string) (*PriceSeries, error)
}

// Client talks to the NAV API: GET {base}/mf for the catalog and
// GET {base}/mf/{code} for a scheme's history. Failed requests are not retried.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     Logger
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     NopLogger{},
	}
}

// FetchCatalog downloads and decodes the scheme list.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.Instrument, error) {
	payload, err := c.get(ctx, "catalog", c.BaseURL+"/mf")
	if err != nil {
		return nil, err
	}
	return ParseCatalog(payload)
}

// FetchHistory downloads and normalizes one scheme's NAV history.
func (c *Client) FetchHistory(ctx context.Context, instrumentID string) (*PriceSeries, error) {
	payload, err := c.get(ctx, "history", c.BaseURL+"/mf/"+url.PathEscape(instrumentID))
	if err != nil {
		return nil, err
	}
	return ParseHistory(payload, instrumentID)
}

func (c *Client) get(ctx context.Context, endpoint, rawURL string) (body []byte, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "navdata.fetch_"+endpoint)
	span.SetAttributes(attribute.String("http.url", rawURL))
	defer func() {
		status := metrics.StatusOK
		if err != nil {
			status = metrics.StatusError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.APIFetches.WithLabelValues(endpoint, status).Inc()
		span.End()
	}()

	c.logger().Debugf("fetching %s", rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}
