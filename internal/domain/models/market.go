package models

// AssetQuote is one symbol's entry in the market overview document. A failed
// fetch degrades to {"error": true} so the overview stays valid JSON.
type AssetQuote struct {
	Price          float64   `json:"price,omitempty"`
	PrevClose      float64   `json:"prevClose,omitempty"`
	DailyChange    float64   `json:"dailyChange"`
	DailyChangePct float64   `json:"dailyChangePct"`
	WeekChangePct  float64   `json:"weekChangePct"`
	SparkData      []float64 `json:"sparkData,omitempty"`
	High           float64   `json:"high,omitempty"`
	Low            float64   `json:"low,omitempty"`
	MarketState    string    `json:"marketState,omitempty"`
	Volume         int64     `json:"volume"`
	Currency       string    `json:"currency,omitempty"`
	Error          bool      `json:"error,omitempty"`
}

// MarketOverview is the secondary published artifact: a per-symbol quote map
// for the dashboard's ticker strip.
type MarketOverview struct {
	UpdatedAt string                 `json:"updatedAt"`
	Assets    map[string]*AssetQuote `json:"assets"`
}
