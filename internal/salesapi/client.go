// Package salesapi is the dashboard's data source adapter. It issues the three
// backend queries and collapses every failure into a nil or empty result,
// logging what went wrong instead of returning it.
package salesapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rewired-gh/salesdash/internal/logger"
	"github.com/rewired-gh/salesdash/internal/models"
)

var (
	// ErrNetwork covers transport failures and non-2xx statuses.
	ErrNetwork = errors.New("network failure")
	// ErrMalformed covers JSON decode and shape validation failures.
	ErrMalformed = errors.New("malformed response")
)

// Client provides access to the sales backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend client. A zero timeout keeps the transport default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP wraps an existing http.Client, e.g. one from httptest.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchSales retrieves the historical report for year, or nil on failure.
func (c *Client) FetchSales(ctx context.Context, year int) *models.SalesYearReport {
	var report models.SalesYearReport
	if err := c.getJSON(ctx, fmt.Sprintf("/sales/%d", year), &report); err != nil {
		logger.Error("Fetch sales error (year %d): %v", year, err)
		return nil
	}
	if err := report.Validate(); err != nil {
		logger.Error("Fetch sales error (year %d): %v", year, fmt.Errorf("%w: %v", ErrMalformed, err))
		return nil
	}
	return &report
}

// FetchForecast retrieves the prediction for year, or nil on failure.
func (c *Client) FetchForecast(ctx context.Context, year int) *models.ForecastReport {
	var report models.ForecastReport
	if err := c.getJSON(ctx, fmt.Sprintf("/predict/%d", year), &report); err != nil {
		logger.Error("Fetch prediction error (year %d): %v", year, err)
		return nil
	}
	if err := report.Validate(); err != nil {
		logger.Error("Fetch prediction error (year %d): %v", year, fmt.Errorf("%w: %v", ErrMalformed, err))
		return nil
	}
	return &report
}

// FetchInventory retrieves the sub-category snapshot. It never returns nil;
// failures yield an empty slice.
func (c *Client) FetchInventory(ctx context.Context) []models.InventoryItem {
	var items []models.InventoryItem
	if err := c.getJSON(ctx, "/sub-category", &items); err != nil {
		logger.Error("Fetch inventory error: %v", err)
		return []models.InventoryItem{}
	}
	if err := models.ValidateInventory(items); err != nil {
		logger.Error("Fetch inventory error: %v", fmt.Errorf("%w: %v", ErrMalformed, err))
		return []models.InventoryItem{}
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	return items
}

// getJSON performs one GET and decodes the body into out. No retries.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ErrNetwork, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
