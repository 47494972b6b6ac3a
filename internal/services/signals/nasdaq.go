package signals

import (
	"fmt"

	"RiskBarometer/internal/domain/models"
	"RiskBarometer/internal/services/stats"
)

// Nasdaq returns the Nasdaq rule set. Auxiliary inputs: VIX and 10Y yield.
func Nasdaq() *Evaluator {
	return &Evaluator{
		Asset: models.AssetNasdaq,
		Rules: []Rule{
			{Name: "VIX Elevated", Weight: 30, Eval: vixElevated(25)},
			{Name: "MA Overextension", Weight: 25, Eval: maOverextension(200, 0.12)},
			{Name: "Rate Surge", Weight: 20, Eval: yieldSurge(40)},
			{Name: "Momentum Reversal", Weight: 15, Eval: nasdaqMomentumReversal},
			{Name: "Volatility Spike", Weight: 10, Eval: volatilityExtreme(20, 0.025)},
		},
	}
}

// nasdaqMomentumReversal is a two-step rule: the 60-day return measured one
// trading week ago exceeded +15% and the current 60-day return is at or
// below zero. The +15%/week-ago parameters stand in for the unpublished
// research values and are pinned by tests.
func nasdaqMomentumReversal(own *models.PriceSeries, _ AuxSeries) (bool, string, error) {
	closes := own.Closes()
	if len(closes) < 60+barsPerWeek+1 {
		return false, "", &models.InsufficientDataError{Need: 60 + barsPerWeek + 1, Have: len(closes)}
	}
	prior, err := stats.PercentChange(closes[:len(closes)-barsPerWeek], 60)
	if err != nil {
		return false, "", err
	}
	current, err := stats.PercentChange(closes, 60)
	if err != nil {
		return false, "", err
	}
	detail := fmt.Sprintf("60-day return: %+.1f%% now, %+.1f%% a week ago", current*100, prior*100)
	return prior > 0.15 && current <= 0, detail, nil
}
