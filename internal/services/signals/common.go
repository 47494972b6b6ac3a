package signals

import (
	"fmt"

	"RiskBarometer/internal/domain/models"
	"RiskBarometer/internal/services/stats"
)

// maOverextension triggers when the close exceeds (1+threshold) times the
// window-day moving average of the asset's own series.
func maOverextension(window int, threshold float64) func(*models.PriceSeries, AuxSeries) (bool, string, error) {
	return func(own *models.PriceSeries, _ AuxSeries) (bool, string, error) {
		closes := own.Closes()
		ma, err := stats.MovingAverage(closes, window)
		if err != nil {
			return false, "", err
		}
		deviation := (own.LastClose() - ma) / ma
		detail := fmt.Sprintf("%+.1f%% vs %d-day MA (threshold: +%.0f%%)",
			deviation*100, window, threshold*100)
		return deviation > threshold, detail, nil
	}
}

// volatilityExtreme triggers when the rolling return volatility of the
// asset's own series exceeds threshold (a daily fraction).
func volatilityExtreme(window int, threshold float64) func(*models.PriceSeries, AuxSeries) (bool, string, error) {
	return func(own *models.PriceSeries, _ AuxSeries) (bool, string, error) {
		vol, err := stats.RollingVolatility(own.Closes(), window)
		if err != nil {
			return false, "", err
		}
		detail := fmt.Sprintf("%d-day volatility: %.2f%% (threshold: %.1f%%)",
			window, vol*100, threshold*100)
		return vol > threshold, detail, nil
	}
}

// vixElevated triggers when the latest VIX close exceeds the level.
func vixElevated(level float64) func(*models.PriceSeries, AuxSeries) (bool, string, error) {
	return func(_ *models.PriceSeries, aux AuxSeries) (bool, string, error) {
		closes, err := aux.closes(AuxVIX)
		if err != nil {
			return false, "", err
		}
		vix := closes[len(closes)-1]
		detail := fmt.Sprintf("VIX at %.1f (threshold: %.0f)", vix, level)
		return vix > level, detail, nil
	}
}

// yieldSurge triggers when the 10Y yield rose more than thresholdBps basis
// points over the last four trading weeks.
func yieldSurge(thresholdBps float64) func(*models.PriceSeries, AuxSeries) (bool, string, error) {
	return func(_ *models.PriceSeries, aux AuxSeries) (bool, string, error) {
		closes, err := aux.closes(AuxYield10Y)
		if err != nil {
			return false, "", err
		}
		deltaBps, current, err := yieldDeltaBps(closes, barsPerFourWeeks)
		if err != nil {
			return false, "", err
		}
		detail := fmt.Sprintf("4-week change: %+.0fbps (current: %.2f%%, threshold: +%.0fbps)",
			deltaBps, current, thresholdBps)
		return deltaBps > thresholdBps, detail, nil
	}
}

// yieldDeltaBps converts a quote-scaled yield series to percent and returns
// the change over lookback bars in basis points plus the current yield.
func yieldDeltaBps(closes []float64, lookback int) (float64, float64, error) {
	if len(closes) < lookback+1 {
		return 0, 0, &models.InsufficientDataError{Need: lookback + 1, Have: len(closes)}
	}
	current := closes[len(closes)-1] / yieldQuoteScale
	prior := closes[len(closes)-1-lookback] / yieldQuoteScale
	return (current - prior) * 100, current, nil
}
