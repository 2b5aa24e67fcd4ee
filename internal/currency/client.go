package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var errMissingAPIKey = errors.New("currency api key is not configured")

// Provider fetches the latest rates for a base currency.
type Provider interface {
	Latest(ctx context.Context, base string) (Rates, error)
}

type ClientConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// Client talks to a freecurrencyapi compatible provider.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL: apiURL,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

func (c *Client) Latest(ctx context.Context, base string) (Rates, error) {
	if c.apiKey == "" {
		return nil, internal.NewExternalError("Currency provider is not configured", internal.ErrCodeCurrencyProvider, errMissingAPIKey)
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, internal.NewExternalError("Currency provider URL is invalid", internal.ErrCodeCurrencyProvider, err)
	}
	q := u.Query()
	q.Set("base_currency", base)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, internal.NewExternalError("Failed to build currency request", internal.ErrCodeCurrencyProvider, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("currency provider request failed", "base", base, "error", err)
		return nil, internal.NewExternalError("Currency provider unavailable", internal.ErrCodeCurrencyProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("currency provider returned error status", "base", base, "status", resp.StatusCode)
		return nil, internal.NewExternalError("Currency provider unavailable", internal.ErrCodeCurrencyProvider,
			fmt.Errorf("provider returned status %d", resp.StatusCode))
	}

	var apiResponse struct {
		Data Rates `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, internal.NewExternalError("Currency provider returned an invalid response", internal.ErrCodeCurrencyProvider, err)
	}
	if apiResponse.Data == nil {
		apiResponse.Data = Rates{}
	}

	c.logger.Info("currency rates fetched",
		"base", base,
		"count", len(apiResponse.Data),
		"duration_ms", time.Since(started).Milliseconds())
	return apiResponse.Data, nil
}
