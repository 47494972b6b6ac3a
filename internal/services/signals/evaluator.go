// Package signals defines the per-asset weighted rule sets and the composite
// scorer. Each asset has exactly five rules; weights per asset sum to 100.
// Rule evaluation is deterministic over the input series and degrades per
// signal: a missing auxiliary feed or short series forces that one signal
// non-triggered with a "data unavailable" detail, it never aborts the report.
package signals

import (
	"fmt"

	"RiskBarometer/internal/domain/models"
)

// Auxiliary series keys. Each asset's rule set names the keys it reads.
const (
	AuxVIX        = "vix"
	AuxYield10Y   = "yield10y"
	AuxYieldShort = "yield_short"
	AuxDXY        = "dxy"
	AuxNasdaq     = "nasdaq"
)

// Trailing windows in trading bars.
const (
	barsPerWeek        = 5
	barsPerFourWeeks   = 20
	percentileWindow5y = 1260

	// ^TNX and ^IRX quote yield% multiplied by ten (45.2 = 4.52%).
	yieldQuoteScale = 10
)

// AuxSeries maps auxiliary keys to fetched series. Absent or empty entries
// surface as ErrMissingAuxiliaryData to the rule that needed them.
type AuxSeries map[string]*models.PriceSeries

func (a AuxSeries) closes(key string) ([]float64, error) {
	s, ok := a[key]
	if !ok || s.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", key, models.ErrMissingAuxiliaryData)
	}
	return s.Closes(), nil
}

// Rule is one weighted signal: a fixed name, the points contributed when
// triggered, and a pure predicate over the asset's own and auxiliary series.
type Rule struct {
	Name   string
	Weight int
	Eval   func(own *models.PriceSeries, aux AuxSeries) (bool, string, error)
}

// Evaluator is the fixed, ordered rule list for one asset.
type Evaluator struct {
	Asset models.AssetKey
	Rules []Rule
}

// Evaluate runs every rule in order and always returns one result per rule.
// Rule errors are absorbed into the result: triggered=false and the detail
// records the cause, so one bad feed degrades exactly one signal.
func (e *Evaluator) Evaluate(own *models.PriceSeries, aux AuxSeries) []models.SignalResult {
	results := make([]models.SignalResult, 0, len(e.Rules))
	for _, r := range e.Rules {
		res := models.SignalResult{Name: r.Name, Weight: r.Weight}
		triggered, detail, err := r.Eval(own, aux)
		if err != nil {
			res.Detail = "data unavailable: " + err.Error()
		} else {
			res.Triggered = triggered
			res.Detail = detail
		}
		results = append(results, res)
	}
	return results
}

// ForAsset returns the evaluator for one of the four tracked assets.
func ForAsset(key models.AssetKey) (*Evaluator, error) {
	switch key {
	case models.AssetGold:
		return Gold(), nil
	case models.AssetSP500:
		return SP500(), nil
	case models.AssetNasdaq:
		return Nasdaq(), nil
	case models.AssetBitcoin:
		return Bitcoin(), nil
	default:
		return nil, fmt.Errorf("no evaluator for asset %q", key)
	}
}
