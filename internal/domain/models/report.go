package models

// AssetKey identifies one tracked asset in the snapshot.
type AssetKey string

const (
	AssetGold    AssetKey = "gold"
	AssetSP500   AssetKey = "sp500"
	AssetNasdaq  AssetKey = "nasdaq"
	AssetBitcoin AssetKey = "bitcoin"
)

// AllAssets lists assets in publication order.
var AllAssets = []AssetKey{AssetGold, AssetSP500, AssetNasdaq, AssetBitcoin}

// RiskLevel is the discrete classification of a composite score.
type RiskLevel string

const (
	LevelLow     RiskLevel = "LOW"
	LevelCaution RiskLevel = "CAUTION"
	LevelWarning RiskLevel = "WARNING"
	LevelDanger  RiskLevel = "DANGER"
)

// SignalResult is one evaluated rule. Weight is the points the rule
// contributes when triggered; Detail records the observed value and
// threshold, or "data unavailable: ..." when the rule degraded.
type SignalResult struct {
	Name      string `json:"name"`
	Weight    int    `json:"weight"`
	Triggered bool   `json:"triggered"`
	Detail    string `json:"detail"`
}

// AssetRiskReport is the scored result for one asset. Signals always holds
// one entry per defined rule in fixed order, triggered or not.
type AssetRiskReport struct {
	Score          int            `json:"score"`
	Level          RiskLevel      `json:"level"`
	Signals        []SignalResult `json:"signals"`
	Recommendation string         `json:"recommendation"`
}

// BarometerSnapshot is the sole published barometer artifact. It is replaced
// wholesale on every run; assets whose own series could not be fetched are
// absent from Barometers.
type BarometerSnapshot struct {
	UpdatedAt  string                        `json:"updatedAt"`
	Barometers map[AssetKey]*AssetRiskReport `json:"barometers"`
}
