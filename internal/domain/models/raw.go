package models

// RawRecord is one upstream JSON object before normalization. The backend has
// shipped several key spellings for the same logical field, so records are
// decoded untyped and resolved by the normalizer.
type RawRecord map[string]any

// RawPerformance mirrors GET /api/performance. The curve key has appeared as
// both equity_curve and equityCurve.
type RawPerformance struct {
	Metrics          RawRecord   `json:"metrics"`
	EquityCurve      []RawRecord `json:"equity_curve"`
	EquityCurveCamel []RawRecord `json:"equityCurve"`
}

// Curve returns whichever equity curve key the payload used.
func (p *RawPerformance) Curve() []RawRecord {
	if len(p.EquityCurve) > 0 {
		return p.EquityCurve
	}
	return p.EquityCurveCamel
}

// RawSignals mirrors GET /api/signals.
type RawSignals struct {
	Signals []RawRecord `json:"signals"`
}

// RawTrades mirrors GET /api/trades.
type RawTrades struct {
	Trades []RawRecord `json:"trades"`
}

// RawPositions mirrors GET /api/positions.
type RawPositions struct {
	Positions []RawRecord `json:"positions"`
}
