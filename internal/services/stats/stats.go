// Package stats holds the pure statistics used by the signal rules.
// Every function is deterministic over its input slice: no I/O, no clock,
// no randomness. Insufficient history is an error, never a silent zero.
package stats

import (
	"fmt"
	"math"

	"RiskBarometer/internal/domain/models"
)

// MovingAverage returns the arithmetic mean of the last `window` closes.
func MovingAverage(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(closes) < window {
		return 0, &models.InsufficientDataError{Need: window, Have: len(closes)}
	}
	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), nil
}

// PercentReturns computes simple daily returns r_t = C_t/C_{t-1} - 1.
// A non-positive previous close yields a 0 return for that bar.
func PercentReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/prev-1)
	}
	return out
}

// RollingVolatility returns the sample standard deviation of the last
// `window` daily percentage returns, as a fraction (0.03 = 3% daily moves).
// It needs window+1 closes to form window returns.
func RollingVolatility(closes []float64, window int) (float64, error) {
	if window <= 1 {
		return 0, fmt.Errorf("window must exceed 1, got %d", window)
	}
	if len(closes) < window+1 {
		return 0, &models.InsufficientDataError{Need: window + 1, Have: len(closes)}
	}
	rets := PercentReturns(closes)
	rets = rets[len(rets)-window:]

	sum, sum2 := 0.0, 0.0
	for _, r := range rets {
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance), nil
}

// PercentileRank returns the fraction of bars in the trailing `window`
// (current bar included) whose close is strictly below the current close.
// A flat series ranks 0; a fresh maximum ranks (window-1)/window, the
// maximum attainable. Documented stand-in for proprietary positioning data.
func PercentileRank(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(closes) < window {
		return 0, &models.InsufficientDataError{Need: window, Have: len(closes)}
	}
	tail := closes[len(closes)-window:]
	current := tail[len(tail)-1]
	below := 0
	for _, c := range tail {
		if c < current {
			below++
		}
	}
	return float64(below) / float64(window), nil
}

// PercentChange returns (current - close lookbackBars ago) / close lookbackBars ago.
func PercentChange(closes []float64, lookbackBars int) (float64, error) {
	if lookbackBars <= 0 {
		return 0, fmt.Errorf("lookback must be positive, got %d", lookbackBars)
	}
	if len(closes) < lookbackBars+1 {
		return 0, &models.InsufficientDataError{Need: lookbackBars + 1, Have: len(closes)}
	}
	ref := closes[len(closes)-1-lookbackBars]
	if ref <= 0 {
		return 0, fmt.Errorf("non-positive reference close %v", ref)
	}
	return (closes[len(closes)-1] - ref) / ref, nil
}

// DrawdownFromPeak returns (current - running max) / running max over the
// full available history. Always <= 0; exactly 0 at the historical maximum.
func DrawdownFromPeak(closes []float64) (float64, error) {
	if len(closes) == 0 {
		return 0, &models.InsufficientDataError{Need: 1, Have: 0}
	}
	peak := closes[0]
	for _, c := range closes {
		if c > peak {
			peak = c
		}
	}
	if peak <= 0 {
		return 0, fmt.Errorf("non-positive peak close %v", peak)
	}
	return (closes[len(closes)-1] - peak) / peak, nil
}
