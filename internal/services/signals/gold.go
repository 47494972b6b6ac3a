package signals

import (
	"fmt"

	"RiskBarometer/internal/domain/models"
	"RiskBarometer/internal/services/stats"
)

// Gold returns the gold rule set. Auxiliary inputs: 10Y yield and USD index.
func Gold() *Evaluator {
	return &Evaluator{
		Asset: models.AssetGold,
		Rules: []Rule{
			{Name: "Positioning Proxy", Weight: 30, Eval: goldPositioning},
			{Name: "Real Yields Surge", Weight: 25, Eval: yieldSurge(50)},
			{Name: "MA Overextension", Weight: 15, Eval: maOverextension(50, 0.10)},
			{Name: "DXY Breakout", Weight: 15, Eval: goldDXYBreakout},
			{Name: "Volatility Extreme", Weight: 15, Eval: volatilityExtreme(20, 0.03)},
		},
	}
}

// goldPositioning is a positioning-extremity proxy: the current close ranked
// against a five-year trailing window. Stand-in for CFTC COT data.
func goldPositioning(own *models.PriceSeries, _ AuxSeries) (bool, string, error) {
	rank, err := stats.PercentileRank(own.Closes(), percentileWindow5y)
	if err != nil {
		return false, "", err
	}
	detail := fmt.Sprintf("price at %.0fth percentile of 5y window (threshold: 85th)", rank*100)
	return rank > 0.85, detail, nil
}

// goldDXYBreakout triggers when the USD index closes above its 200-day MA
// and is higher than a trading week ago.
func goldDXYBreakout(_ *models.PriceSeries, aux AuxSeries) (bool, string, error) {
	closes, err := aux.closes(AuxDXY)
	if err != nil {
		return false, "", err
	}
	ma, err := stats.MovingAverage(closes, 200)
	if err != nil {
		return false, "", err
	}
	if len(closes) < barsPerWeek+1 {
		return false, "", &models.InsufficientDataError{Need: barsPerWeek + 1, Have: len(closes)}
	}
	current := closes[len(closes)-1]
	rising := current > closes[len(closes)-1-barsPerWeek]
	direction := "falling"
	if rising {
		direction = "rising"
	}
	detail := fmt.Sprintf("%+.1f%% vs 200-day MA, %s", (current-ma)/ma*100, direction)
	return current > ma && rising, detail, nil
}
