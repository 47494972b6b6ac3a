package models

import "time"

// Bar is a single daily (or intraday) observation for one symbol.
type Bar struct {
	Timestamp time.Time
	Close     float64
	High      float64
	Low       float64
	Volume    int64
}

// PriceSeries is an ordered price history for one symbol, ascending by time,
// no duplicate timestamps. The fetcher normalizes raw provider output into
// this shape; everything downstream may rely on the invariants.
type PriceSeries struct {
	Symbol string
	Bars   []Bar
}

func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Closes returns the close column in bar order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, 0, s.Len())
	for _, b := range s.Bars {
		out = append(out, b.Close)
	}
	return out
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s *PriceSeries) LastClose() float64 {
	if s.Len() == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// ChartMeta carries quote-level metadata returned alongside a chart fetch.
type ChartMeta struct {
	RegularMarketPrice  float64
	ChartPreviousClose  float64
	RegularMarketVolume int64
	MarketState         string
	Currency            string
}
