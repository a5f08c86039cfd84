// Package baseline bundles the static sample dataset shown whenever live
// retrieval is unavailable and no fresher last-known-good copy exists.
package baseline

import "PortfolioPulse/internal/domain/models"

// Groups lists the tickers each signal model covers.
var Groups = map[string][]string{
	"tech":   {"AAPL", "MSFT", "NVDA", "GOOGL", "TSLA"},
	"energy": {"XOM", "CVX", "JPM", "BAC"},
}

var metrics = models.PerformanceMetrics{
	PortfolioValue:     105000,
	PortfolioChangePct: 5.0,
	DailyPnl:           1200,
	DailyPnlPct:        1.15,
	OpenPositions:      4,
	WinRatePct:         58.3,
	SharpeRatio:        1.42,
	MaxDrawdownPct:     -8.4,
	BuyingPower:        45000,
	ModelConfidencePct: 72.5,
	LastUpdated:        "2025-06-02T13:45:00Z",
}

var equityCurve = []models.EquityPoint{
	{Label: "2025-05-23", Value: 99400},
	{Label: "2025-05-26", Value: 100250},
	{Label: "2025-05-27", Value: 101100},
	{Label: "2025-05-28", Value: 100800},
	{Label: "2025-05-29", Value: 102300},
	{Label: "2025-05-30", Value: 103150},
	{Label: "2025-06-02", Value: 105000},
}

var positions = []models.Position{
	{Symbol: "AAPL", Quantity: 50, AveragePrice: 178.5, MarketPrice: 182.25, Pnl: 187.5, PnlPercent: 2.1},
	{Symbol: "NVDA", Quantity: 12, AveragePrice: 920.4, MarketPrice: 968.1, Pnl: 572.4, PnlPercent: 5.18},
	{Symbol: "MSFT", Quantity: 25, AveragePrice: 410.0, MarketPrice: 422.8, Pnl: 320, PnlPercent: 3.12},
	{Symbol: "XOM", Quantity: 80, AveragePrice: 112.3, MarketPrice: 110.9, Pnl: -112, PnlPercent: -1.25},
}

var trades = []models.Trade{
	{ID: "t-1007", Timestamp: "2025-06-02T14:30:00Z", Symbol: "NVDA", Side: "BUY", Quantity: 4, Price: 955.2, Pnl: 0, Model: "tech"},
	{ID: "t-1006", Timestamp: "2025-06-02T14:30:00Z", Symbol: "TSLA", Side: "SELL", Quantity: 10, Price: 182.4, Pnl: 214.8, Model: "tech"},
	{ID: "t-1005", Timestamp: "2025-05-30T14:30:00Z", Symbol: "AAPL", Side: "BUY", Quantity: 20, Price: 179.1, Pnl: 0, Model: "tech"},
	{ID: "t-1004", Timestamp: "2025-05-30T14:30:00Z", Symbol: "CVX", Side: "SELL", Quantity: 15, Price: 157.8, Pnl: -48.2, Model: "energy"},
	{ID: "t-1003", Timestamp: "2025-05-29T14:30:00Z", Symbol: "JPM", Side: "BUY", Quantity: 18, Price: 198.6, Pnl: 0, Model: "energy"},
}

var signals = map[string][]models.Signal{
	"tech": {
		{Symbol: "AAPL", Action: "BUY", Confidence: 0.78, PositionSize: 0.15, Rationale: "Momentum above the 20-day average with rising volume."},
		{Symbol: "NVDA", Action: "BUY", Confidence: 0.84, PositionSize: 0.2, Rationale: "Strong trend continuation after earnings."},
		{Symbol: "TSLA", Action: "SELL", Confidence: 0.61, PositionSize: 0.1, Rationale: "RSI overbought, trimming exposure."},
		{Symbol: "MSFT", Action: "HOLD", Confidence: 0.55, PositionSize: 0, Rationale: "No edge at current levels."},
		{Symbol: "GOOGL", Action: "HOLD", Confidence: 0.52, PositionSize: 0, Rationale: "Mixed indicator readings."},
	},
	"energy": {
		{Symbol: "XOM", Action: "SELL", Confidence: 0.66, PositionSize: 0.12, Rationale: "Crude weakness pressuring the sector."},
		{Symbol: "CVX", Action: "HOLD", Confidence: 0.5, PositionSize: 0, Rationale: "Rangebound, waiting for a breakout."},
		{Symbol: "JPM", Action: "BUY", Confidence: 0.71, PositionSize: 0.14, Rationale: "Rate environment favors financials."},
		{Symbol: "BAC", Action: "HOLD", Confidence: 0.48, PositionSize: 0, Rationale: "Low conviction either way."},
	},
}

// Metrics returns the default performance record used as the merge base for
// partial upstream metrics.
func Metrics() models.PerformanceMetrics { return metrics }

// Dataset returns a copy of the bundled sample data. Signals are scoped to
// the given model; unknown models fall back to the tech group.
func Dataset(model string) models.Dataset {
	sigs, ok := signals[model]
	if !ok {
		sigs = signals["tech"]
	}
	return models.Dataset{
		Performance: metrics,
		EquityCurve: append([]models.EquityPoint(nil), equityCurve...),
		Positions:   append([]models.Position(nil), positions...),
		Trades:      append([]models.Trade(nil), trades...),
		Signals:     append([]models.Signal(nil), sigs...),
	}
}
