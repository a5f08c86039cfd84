package backend

import (
	"context"
	"fmt"
	"strconv"

	"PortfolioPulse/internal/domain/models"
	apphttp "PortfolioPulse/pkg/http"
	"PortfolioPulse/pkg/logger"
)

// Client retrieves dashboard payloads from the trading backend over HTTP.
// It decodes envelopes but does not normalize field names or scales.
type Client struct {
	baseURL string
	http    *apphttp.Client
	log     *logger.Logger
}

// NewClient creates a backend feed client.
func NewClient(baseURL string, httpClient *apphttp.Client, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		log:     log,
	}
}

// Performance fetches metrics and the equity curve.
func (c *Client) Performance(ctx context.Context) (*models.RawPerformance, error) {
	var out models.RawPerformance
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL: c.baseURL + "/api/performance",
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch performance: %w", err)
	}
	return &out, nil
}

// Signals fetches current signals for the given model.
func (c *Client) Signals(ctx context.Context, model string) ([]models.RawRecord, error) {
	var out models.RawSignals
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL:         c.baseURL + "/api/signals",
		QueryParams: map[string]string{"model": model},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch signals: %w", err)
	}
	return out.Signals, nil
}

// Trades fetches the most recent trades, newest first.
func (c *Client) Trades(ctx context.Context, limit int) ([]models.RawRecord, error) {
	var out models.RawTrades
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL:         c.baseURL + "/api/trades",
		QueryParams: map[string]string{"limit": strconv.Itoa(limit)},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	return out.Trades, nil
}

// Positions fetches open positions.
func (c *Client) Positions(ctx context.Context) ([]models.RawRecord, error) {
	var out models.RawPositions
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL: c.baseURL + "/api/positions",
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	return out.Positions, nil
}
