package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxBodySize = 10 << 20

// productListResponse is the body served by the catalog endpoint
type productListResponse struct {
	Products []*domain.Product `json:"products"`
}

// Client fetches the product catalog over HTTP
type Client struct {
	httpClient *http.Client
	url        string
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewClient creates a catalog client for the configured endpoint
func NewClient(cfg *config.CatalogConfig, tracer trace.Tracer, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		url:    cfg.URL,
		tracer: tracer,
		logger: logger,
	}
}

// Fetch retrieves the catalog. Every failure wraps domain.ErrCatalogUnavailable.
func (c *Client) Fetch(ctx context.Context) (domain.Catalog, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.Fetch")
	defer span.End()

	span.SetAttributes(attribute.String("catalog.url", c.url))

	catalog, err := c.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		c.logger.ErrorContext(ctx, "Failed to fetch catalog",
			slog.String("url", c.url),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.size", len(catalog)))
	span.SetStatus(codes.Ok, "Catalog fetched")
	return catalog, nil
}

func (c *Client) fetch(ctx context.Context) (domain.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to make request: %w", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: API returned status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrCatalogUnavailable, err)
	}

	c.logger.DebugContext(ctx, "Catalog response received",
		slog.String("body", string(body)),
	)

	var list productListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrCatalogUnavailable, err)
	}

	catalog := make(domain.Catalog, 0, len(list.Products))
	for _, p := range list.Products {
		if p != nil {
			catalog = append(catalog, p)
		}
	}

	return catalog, nil
}
