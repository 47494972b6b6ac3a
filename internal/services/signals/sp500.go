package signals

import (
	"fmt"

	"RiskBarometer/internal/domain/models"
	"RiskBarometer/internal/services/stats"
)

// SP500 returns the S&P 500 rule set. Auxiliary inputs: VIX, 10Y and
// short-end yields, and the Nasdaq composite for breadth.
func SP500() *Evaluator {
	return &Evaluator{
		Asset: models.AssetSP500,
		Rules: []Rule{
			{Name: "VIX Elevated", Weight: 30, Eval: vixElevated(25)},
			{Name: "Yield Curve", Weight: 25, Eval: spYieldCurve},
			{Name: "MA Overextension", Weight: 20, Eval: maOverextension(200, 0.08)},
			{Name: "Hedging Surge", Weight: 15, Eval: spHedgingSurge},
			{Name: "Breadth Lag", Weight: 10, Eval: spBreadthLag},
		},
	}
}

// spYieldCurve triggers on a flat or inverted curve: 10Y minus short-end
// spread below 0.002 (20bps), both yields as fractions.
func spYieldCurve(_ *models.PriceSeries, aux AuxSeries) (bool, string, error) {
	long, err := aux.closes(AuxYield10Y)
	if err != nil {
		return false, "", err
	}
	short, err := aux.closes(AuxYieldShort)
	if err != nil {
		return false, "", err
	}
	longPct := long[len(long)-1] / yieldQuoteScale
	shortPct := short[len(short)-1] / yieldQuoteScale
	spread := (longPct - shortPct) / 100

	detail := fmt.Sprintf("10Y-2Y spread: %.2f%%", longPct-shortPct)
	if spread < 0 {
		detail += " (inverted)"
	}
	return spread < 0.002, detail, nil
}

// spHedgingSurge triggers on a VIX jump above 30% within one trading week.
func spHedgingSurge(_ *models.PriceSeries, aux AuxSeries) (bool, string, error) {
	closes, err := aux.closes(AuxVIX)
	if err != nil {
		return false, "", err
	}
	change, err := stats.PercentChange(closes, barsPerWeek)
	if err != nil {
		return false, "", err
	}
	detail := fmt.Sprintf("VIX 1-week change: %+.1f%% (threshold: +30%%)", change*100)
	return change > 0.30, detail, nil
}

// spBreadthLag triggers when the Nasdaq trails the S&P by more than 3 points
// of four-week return, a narrowing-leadership proxy.
func spBreadthLag(own *models.PriceSeries, aux AuxSeries) (bool, string, error) {
	ndx, err := aux.closes(AuxNasdaq)
	if err != nil {
		return false, "", err
	}
	ndxChange, err := stats.PercentChange(ndx, barsPerFourWeeks)
	if err != nil {
		return false, "", err
	}
	spChange, err := stats.PercentChange(own.Closes(), barsPerFourWeeks)
	if err != nil {
		return false, "", err
	}
	divergence := ndxChange - spChange
	detail := fmt.Sprintf("Nasdaq-S&P 4-week divergence: %+.1f%% (threshold: -3%%)", divergence*100)
	return divergence < -0.03, detail, nil
}
