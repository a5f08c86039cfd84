package models

import "time"

// SourceState says which dataset currently populates the snapshot store.
type SourceState string

const (
	SourceLive     SourceState = "LIVE"
	SourceFallback SourceState = "FALLBACK"
)

// PerformanceMetrics is the canonical portfolio summary. It is always a
// complete record: normalization merges partial upstream metrics over a
// baseline default so no field is ever missing.
type PerformanceMetrics struct {
	PortfolioValue     float64 `json:"portfolioValue"`
	PortfolioChangePct float64 `json:"portfolioChangePercent"`
	DailyPnl           float64 `json:"dailyPnl"`
	DailyPnlPct        float64 `json:"dailyPnlPercent"`
	OpenPositions      int     `json:"openPositions"`
	WinRatePct         float64 `json:"winRate"`
	SharpeRatio        float64 `json:"sharpeRatio"`
	MaxDrawdownPct     float64 `json:"maxDrawdown"`
	BuyingPower        float64 `json:"buyingPower"`
	ModelConfidencePct float64 `json:"modelConfidence"`
	LastUpdated        string  `json:"lastUpdated"`
}

// EquityPoint is one labelled point of the equity curve. The curve is ordered
// chronologically and fully replaced on each successful refresh.
type EquityPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Position is an open holding. PnlPercent is expressed in percentage points
// (3.12 means 3.12%), never as a fraction.
type Position struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"averagePrice"`
	MarketPrice  float64 `json:"marketPrice"`
	Pnl          float64 `json:"pnl"`
	PnlPercent   float64 `json:"pnlPercent"`
}

// Trade is one executed order. Timestamp is an RFC3339 string or empty when
// the upstream record carried none.
type Trade struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp,omitempty"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Pnl       float64 `json:"pnl"`
	Model     string  `json:"model"`
}

// Signal is a model recommendation. Confidence and PositionSize are fractions
// in [0,1] regardless of the scale the upstream source used.
type Signal struct {
	Symbol       string  `json:"symbol"`
	Action       string  `json:"action"`
	Confidence   float64 `json:"confidence"`
	PositionSize float64 `json:"positionSize"`
	Rationale    string  `json:"rationale,omitempty"`
}

// Dataset groups the four entity collections produced by one refresh cycle.
// A cycle commits a whole Dataset or nothing.
type Dataset struct {
	Performance PerformanceMetrics `json:"performance"`
	EquityCurve []EquityPoint      `json:"equityCurve"`
	Positions   []Position         `json:"positions"`
	Trades      []Trade            `json:"trades"`
	Signals     []Signal           `json:"signals"`
}

// Snapshot is a committed Dataset plus its provenance.
type Snapshot struct {
	Dataset
	Model     string      `json:"model"`
	Source    SourceState `json:"source"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Clone returns a copy whose slices do not share backing arrays with the
// original, so readers can hold it without observing later commits.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.EquityCurve = append([]EquityPoint(nil), s.EquityCurve...)
	out.Positions = append([]Position(nil), s.Positions...)
	out.Trades = append([]Trade(nil), s.Trades...)
	out.Signals = append([]Signal(nil), s.Signals...)
	return out
}
