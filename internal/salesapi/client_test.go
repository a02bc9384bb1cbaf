package salesapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*Client, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		handler, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second), calls
}

func body(s string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) { _, _ = w.Write([]byte(s)) }
}

func status(code int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) { w.WriteHeader(code) }
}

func TestFetchSales(t *testing.T) {
	client, _ := newBackend(t, map[string]func(http.ResponseWriter){
		"/sales/2023": body(`{"year":2023,"quarterlyBreakdown":[{"ds":"2023-01-01","actualSales":100,"actualProfit":5,"predictedSales":90,"absoluteError":10,"errorPercentage":10}],"yearlySummary":{"totalActualSales":100,"totalProfit":5,"totalPredictedSales":90,"totalAbsoluteError":10,"totalErrorPercentage":10}}`),
	})

	report := client.FetchSales(context.Background(), 2023)
	require.NotNil(t, report)
	assert.Equal(t, 2023, report.Year)
	require.Len(t, report.QuarterlyBreakdown, 1)
	assert.Equal(t, 100.0, report.QuarterlyBreakdown[0].ActualSales)
}

func TestFetchSalesFailuresReturnNil(t *testing.T) {
	tests := []struct {
		name    string
		handler func(http.ResponseWriter)
	}{
		{"server error", status(http.StatusInternalServerError)},
		{"not found", status(http.StatusNotFound)},
		{"invalid json", body(`{"year":`)},
		{"wrong shape", body(`{"year":"2023"}`)},
		{"missing year", body(`{"quarterlyBreakdown":[]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, calls := newBackend(t, map[string]func(http.ResponseWriter){"/sales/2023": tt.handler})
			assert.Nil(t, client.FetchSales(context.Background(), 2023))
			assert.Equal(t, int32(1), calls.Load(), "failed fetches must not be retried")
		})
	}
}

func TestFetchSalesTransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	assert.Nil(t, client.FetchSales(context.Background(), 2023))
}

func TestFetchForecast(t *testing.T) {
	client, _ := newBackend(t, map[string]func(http.ResponseWriter){
		"/predict/2025": body(`{"year":2025,"predicted":[{"ds":"2025-01-01","yhat":50}],"totalPredictedSales":50}`),
	})

	report := client.FetchForecast(context.Background(), 2025)
	require.NotNil(t, report)
	require.Len(t, report.Predicted, 1)
	assert.Equal(t, 50.0, report.Predicted[0].PredictedSales)
	assert.Equal(t, 50.0, report.TotalPredictedSales)

	assert.Nil(t, client.FetchForecast(context.Background(), 2026))
}

func TestFetchInventory(t *testing.T) {
	client, _ := newBackend(t, map[string]func(http.ResponseWriter){
		"/sub-category": body(`[{"Sub-Category":"Chairs","Sales_2024":200,"growth":10,"campaignSuggestion":"Stable, Retarget"}]`),
	})

	items := client.FetchInventory(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "Chairs", items[0].SubCategory)
	assert.Equal(t, 10.0, items[0].GrowthPercent)
}

func TestFetchInventoryFailuresReturnEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler func(http.ResponseWriter)
	}{
		{"server error", status(http.StatusBadGateway)},
		{"object instead of array", body(`{"items":[]}`)},
		{"duplicate sub-category", body(`[{"Sub-Category":"Chairs"},{"Sub-Category":"Chairs"}]`)},
		{"null body", body(`null`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newBackend(t, map[string]func(http.ResponseWriter){"/sub-category": tt.handler})
			items := client.FetchInventory(context.Background())
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestGetJSONClassifiesErrors(t *testing.T) {
	client, _ := newBackend(t, map[string]func(http.ResponseWriter){
		"/bad":  body(`not json`),
		"/down": status(http.StatusServiceUnavailable),
	})

	var out map[string]interface{}
	err := client.getJSON(context.Background(), "/bad", &out)
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)

	err = client.getJSON(context.Background(), "/down", &out)
	assert.True(t, errors.Is(err, ErrNetwork), "got %v", err)
}

func TestFetchRespectsContext(t *testing.T) {
	client, _ := newBackend(t, map[string]func(http.ResponseWriter){
		"/sub-category": body(`[]`),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, client.FetchInventory(ctx))
}
