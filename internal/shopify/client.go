package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/config"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/metrics"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/shopify/dto"
)

const tokenHeader = "X-Shopify-Storefront-Access-Token"

var ErrMissingData = errors.New("shopify graphql response missing data")

// Client reads the product catalog through the Storefront GraphQL API.
type Client struct {
	config     config.ShopifyConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
	backoff    func(attempt int) time.Duration
}

func NewClient(cfg config.ShopifyConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		endpoint:   Endpoint(cfg.StoreDomain, cfg.APIVersion),
		backoff:    retryDelay,
	}
}

// Endpoint builds the Storefront GraphQL URL for a store domain. A domain
// without a scheme gets https.
func Endpoint(storeDomain, apiVersion string) string {
	d := strings.TrimSpace(storeDomain)
	if !strings.HasPrefix(d, "http://") && !strings.HasPrefix(d, "https://") {
		d = "https://" + d
	}
	d = strings.TrimRight(d, "/")
	return d + "/api/" + apiVersion + "/graphql.json"
}

// FetchProducts reads one page of products starting after the given cursor.
func (c *Client) FetchProducts(ctx context.Context, after string, first int) (domain.UpstreamPage, error) {
	vars := map[string]any{"first": first}
	if after != "" {
		vars["after"] = after
	}

	var data dto.ProductsQueryData
	if err := c.graphqlRequest(ctx, productsQuery, vars, &data); err != nil {
		return domain.UpstreamPage{}, err
	}

	return toUpstreamPage(data.Products), nil
}

func (c *Client) graphqlRequest(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(dto.GraphQLRequest{
		Query:     strings.TrimSpace(query),
		Variables: variables,
	})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}

		lastErr = c.do(ctx, body, out)
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.config.StorefrontToken)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstream(0, time.Since(started))
		return err
	}
	defer resp.Body.Close()
	metrics.RecordUpstream(resp.StatusCode, time.Since(started))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPStatusError(resp.StatusCode, resp.Status, raw)
	}

	var gql dto.GraphQLResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &gql); err != nil {
		return err
	}
	if len(gql.Errors) > 0 {
		return &GraphQLError{Errors: gql.Errors}
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return ErrMissingData
	}
	return json.Unmarshal(gql.Data, out)
}
