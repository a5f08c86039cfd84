// Package normalize maps raw backend records onto canonical entities.
// Every function here is pure: no I/O, no state, and no errors — missing or
// malformed fields collapse to safe defaults instead.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/pkg/util"
)

const (
	// ScaleThreshold separates fractional inputs from whole-percent inputs:
	// a magnitude above it means the source already speaks 0-100. Exactly 1
	// is ambiguous (1% or 100%) and is treated as fractional; callers that
	// care are pointed at TestScaleThresholdBoundary.
	ScaleThreshold = 1.0

	// PlaceholderSymbol stands in for a missing ticker.
	PlaceholderSymbol = "—"

	// DefaultSide is used when a trade or signal carries no recognizable action.
	DefaultSide = "HOLD"
)

var knownSides = map[string]bool{"BUY": true, "SELL": true, "HOLD": true}

// Number resolves the first alias present in rec to a finite float64.
// Non-finite and unparseable values count as absent.
func Number(rec models.RawRecord, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, true
		}
		return f, true
	}
	return 0, false
}

// String resolves the first non-empty string alias present in rec.
func String(rec models.RawRecord, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// Percent canonicalizes a percentage-like value to 0-100 units. Values at or
// below ScaleThreshold in magnitude are assumed fractional and scaled up.
func Percent(v float64) float64 {
	if math.Abs(v) > ScaleThreshold {
		return v
	}
	return v * 100
}

// Fraction canonicalizes a confidence or sizing value to [0,1]. Values above
// ScaleThreshold in magnitude are assumed whole percents and scaled down.
func Fraction(v float64) float64 {
	if math.Abs(v) > ScaleThreshold {
		return v / 100
	}
	return v
}

// Side uppercases an action token. Unrecognized tokens pass through uppercased;
// an empty token becomes DefaultSide.
func Side(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultSide
	}
	return s
}

// Timestamp coerces a raw timestamp value (RFC3339 string, unix seconds or
// millis, numeric string) to an RFC3339 string, or "" when absent.
func Timestamp(rec models.RawRecord, keys ...string) string {
	if n, ok := Number(rec, keys...); ok && n > 0 {
		if s, sok := String(rec, keys...); sok {
			if t, tok := util.ParseTime(s); tok {
				return t.UTC().Format(time.RFC3339)
			}
			return s
		}
		return util.FromUnixGuess(n).UTC().Format(time.RFC3339)
	}
	if s, ok := String(rec, keys...); ok {
		if t, tok := util.ParseTime(s); tok {
			return t.UTC().Format(time.RFC3339)
		}
		return s
	}
	return ""
}

// Position maps a raw position record to its canonical shape.
func Position(rec models.RawRecord) models.Position {
	sym, ok := String(rec, "symbol", "ticker", "asset")
	if !ok {
		sym = PlaceholderSymbol
	}
	qty, _ := Number(rec, "quantity", "qty", "shares")
	avg, _ := Number(rec, "averagePrice", "avg_price", "avg_entry_price")
	mkt, _ := Number(rec, "marketPrice", "current_price", "market_price")
	pnl, _ := Number(rec, "unrealizedPnl", "unrealized_pl", "pnl")
	p := models.Position{
		Symbol:       sym,
		Quantity:     qty,
		AveragePrice: avg,
		MarketPrice:  mkt,
		Pnl:          pnl,
	}
	if pct, ok := Number(rec, "unrealizedPnlPercent", "unrealized_plpc", "pnl_percent", "pnlPercent"); ok {
		p.PnlPercent = Percent(pct)
	}
	return p
}

// Trade maps a raw trade record to its canonical shape. A missing id is
// synthesized from symbol and timestamp so rows stay addressable.
func Trade(rec models.RawRecord) models.Trade {
	sym, ok := String(rec, "symbol", "ticker")
	if !ok {
		sym = PlaceholderSymbol
	}
	ts := Timestamp(rec, "timestamp", "filled_at", "created_at")
	id, ok := String(rec, "id", "trade_id", "order_id")
	if !ok {
		id = fmt.Sprintf("%s-%s", sym, ts)
	}
	side, _ := String(rec, "side", "action", "type")
	qty, _ := Number(rec, "quantity", "qty", "shares")
	price, _ := Number(rec, "price", "fill_price", "filled_avg_price")
	pnl, _ := Number(rec, "pnl", "profit", "realized_pl")
	model, _ := String(rec, "model", "strategy")
	return models.Trade{
		ID:        id,
		Timestamp: ts,
		Symbol:    sym,
		Side:      Side(side),
		Quantity:  qty,
		Price:     price,
		Pnl:       pnl,
		Model:     model,
	}
}

// Signal maps a raw signal record to its canonical shape. Confidence and
// position size are stored as fractions whatever scale the source used.
func Signal(rec models.RawRecord) models.Signal {
	sym, ok := String(rec, "symbol", "ticker")
	if !ok {
		sym = PlaceholderSymbol
	}
	action, _ := String(rec, "action", "side")
	conf, _ := Number(rec, "confidence", "score", "signal_strength")
	size, _ := Number(rec, "positionSize", "weight", "position_size")
	rationale, _ := String(rec, "thesis", "reason", "notes")
	return models.Signal{
		Symbol:       sym,
		Action:       Side(action),
		Confidence:   Fraction(conf),
		PositionSize: Fraction(size),
		Rationale:    rationale,
	}
}

// Metrics merges a raw metrics record over base so the result is always a
// complete record. Fields absent from rec keep the base value.
func Metrics(rec models.RawRecord, base models.PerformanceMetrics) models.PerformanceMetrics {
	m := base
	if v, ok := Number(rec, "portfolio_value", "portfolioValue", "equity", "current_value"); ok {
		m.PortfolioValue = v
	}
	if v, ok := Number(rec, "portfolio_change", "portfolioChange", "total_return", "total_pnl_percent"); ok {
		m.PortfolioChangePct = Percent(v)
	}
	if v, ok := Number(rec, "daily_pnl", "dailyPnl", "day_pnl"); ok {
		m.DailyPnl = v
	}
	if v, ok := Number(rec, "daily_pnl_percent", "dailyPnlPercent", "day_pnl_percent"); ok {
		m.DailyPnlPct = Percent(v)
	}
	if v, ok := Number(rec, "open_positions", "openPositions", "position_count"); ok {
		m.OpenPositions = int(v)
	}
	if v, ok := Number(rec, "win_rate", "winRate"); ok {
		m.WinRatePct = Percent(v)
	}
	if v, ok := Number(rec, "sharpe_ratio", "sharpeRatio", "sharpe"); ok {
		m.SharpeRatio = v
	}
	if v, ok := Number(rec, "max_drawdown", "maxDrawdown"); ok {
		m.MaxDrawdownPct = Percent(v)
	}
	if v, ok := Number(rec, "buying_power", "buyingPower"); ok {
		m.BuyingPower = v
	}
	if v, ok := Number(rec, "model_confidence", "modelConfidence", "confidence"); ok {
		m.ModelConfidencePct = Percent(v)
	}
	if ts := Timestamp(rec, "last_updated", "lastUpdated", "timestamp"); ts != "" {
		m.LastUpdated = ts
	}
	return m
}

// EquityPoint maps one raw curve entry.
func EquityPoint(rec models.RawRecord) models.EquityPoint {
	label, _ := String(rec, "date", "label")
	value, _ := Number(rec, "value", "equity")
	return models.EquityPoint{Label: label, Value: value}
}

// EquityCurve maps a raw curve in order.
func EquityCurve(recs []models.RawRecord) []models.EquityPoint {
	out := make([]models.EquityPoint, 0, len(recs))
	for _, r := range recs {
		out = append(out, EquityPoint(r))
	}
	return out
}

// Positions maps a raw position list.
func Positions(recs []models.RawRecord) []models.Position {
	out := make([]models.Position, 0, len(recs))
	for _, r := range recs {
		out = append(out, Position(r))
	}
	return out
}

// Trades maps a raw trade list.
func Trades(recs []models.RawRecord) []models.Trade {
	out := make([]models.Trade, 0, len(recs))
	for _, r := range recs {
		out = append(out, Trade(r))
	}
	return out
}

// Signals maps a raw signal list.
func Signals(recs []models.RawRecord) []models.Signal {
	out := make([]models.Signal, 0, len(recs))
	for _, r := range recs {
		out = append(out, Signal(r))
	}
	return out
}
