package signals

import "RiskBarometer/internal/domain/models"

// Risk level breakpoints are fixed constants, inclusive upper bounds.
const (
	lowMax     = 30
	cautionMax = 50
	warningMax = 70
	scoreCap   = 100
)

var recommendations = map[models.RiskLevel]string{
	models.LevelLow:     "Normal conditions. Maintain trend-following positions.",
	models.LevelCaution: "Elevated risk. Monitor closely, prepare hedges.",
	models.LevelWarning: "High risk. Consider reducing exposure by 25-50%.",
	models.LevelDanger:  "Extreme risk. Hedge aggressively or reduce to 25% position.",
}

// Score sums the weights of triggered signals, capped at 100. Degraded
// signals carry triggered=false and so contribute nothing.
func Score(results []models.SignalResult) int {
	total := 0
	for _, r := range results {
		if r.Triggered {
			total += r.Weight
		}
	}
	if total > scoreCap {
		total = scoreCap
	}
	return total
}

// LevelForScore maps a composite score to its risk level. Total over [0,100].
func LevelForScore(score int) models.RiskLevel {
	switch {
	case score <= lowMax:
		return models.LevelLow
	case score <= cautionMax:
		return models.LevelCaution
	case score <= warningMax:
		return models.LevelWarning
	default:
		return models.LevelDanger
	}
}

// RecommendationFor returns the fixed advisory text for a level.
func RecommendationFor(level models.RiskLevel) string {
	return recommendations[level]
}

// BuildReport assembles the full report for one asset from its evaluated
// signal list. Pure: no I/O, cannot fail.
func BuildReport(results []models.SignalResult) *models.AssetRiskReport {
	score := Score(results)
	level := LevelForScore(score)
	return &models.AssetRiskReport{
		Score:          score,
		Level:          level,
		Signals:        results,
		Recommendation: RecommendationFor(level),
	}
}
