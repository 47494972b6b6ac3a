package signals

import (
	"fmt"

	"RiskBarometer/internal/domain/models"
	"RiskBarometer/internal/services/stats"
)

// Bitcoin returns the Bitcoin rule set. Sole auxiliary input: the Nasdaq
// composite, used for the risk-off correlation check.
func Bitcoin() *Evaluator {
	return &Evaluator{
		Asset: models.AssetBitcoin,
		Rules: []Rule{
			{Name: "MA Overextension", Weight: 30, Eval: maOverextension(200, 0.25)},
			{Name: "Volatility Extreme", Weight: 25, Eval: volatilityExtreme(30, 0.08)},
			{Name: "Momentum Exhaustion", Weight: 20, Eval: btcMomentumExhaustion},
			{Name: "Risk-Off Correlation", Weight: 15, Eval: btcRiskOffCorrelation},
			{Name: "Drawdown from ATH", Weight: 10, Eval: btcDrawdown},
		},
	}
}

// btcMomentumExhaustion triggers when a strong 60-day run (>30%) has stalled
// to under 10% over the last 30 days.
func btcMomentumExhaustion(own *models.PriceSeries, _ AuxSeries) (bool, string, error) {
	closes := own.Closes()
	gain60, err := stats.PercentChange(closes, 60)
	if err != nil {
		return false, "", err
	}
	gain30, err := stats.PercentChange(closes, 30)
	if err != nil {
		return false, "", err
	}
	detail := fmt.Sprintf("60-day: %+.1f%%, 30-day: %+.1f%%", gain60*100, gain30*100)
	return gain60 > 0.30 && gain30 < 0.10, detail, nil
}

// btcRiskOffCorrelation triggers when Bitcoin and the Nasdaq are both down
// more than 10% over 60 days, a broad risk-off move.
func btcRiskOffCorrelation(own *models.PriceSeries, aux AuxSeries) (bool, string, error) {
	ndx, err := aux.closes(AuxNasdaq)
	if err != nil {
		return false, "", err
	}
	btcChange, err := stats.PercentChange(own.Closes(), 60)
	if err != nil {
		return false, "", err
	}
	ndxChange, err := stats.PercentChange(ndx, 60)
	if err != nil {
		return false, "", err
	}
	detail := fmt.Sprintf("BTC 60-day: %+.1f%%, Nasdaq: %+.1f%%", btcChange*100, ndxChange*100)
	return btcChange < -0.10 && ndxChange < -0.10, detail, nil
}

// btcDrawdown triggers below -30% from the running all-time high.
func btcDrawdown(own *models.PriceSeries, _ AuxSeries) (bool, string, error) {
	dd, err := stats.DrawdownFromPeak(own.Closes())
	if err != nil {
		return false, "", err
	}
	detail := fmt.Sprintf("%.1f%% from all-time high (threshold: -30%%)", dd*100)
	return dd < -0.30, detail, nil
}
