package stats

import (
	"errors"
	"math"
	"testing"

	"RiskBarometer/internal/domain/models"
)

func TestMovingAverage(t *testing.T) {
	got, err := MovingAverage([]float64{1, 2, 3, 4, 5, 6}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestMovingAverageInsufficient(t *testing.T) {
	_, err := MovingAverage([]float64{1, 2}, 3)
	var ins *models.InsufficientDataError
	if !errors.As(err, &ins) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if ins.Need != 3 || ins.Have != 2 {
		t.Fatalf("unexpected need/have: %+v", ins)
	}
}

func TestRollingVolatilityNonNegative(t *testing.T) {
	series := [][]float64{
		{100, 100, 100, 100, 100, 100},
		{100, 110, 99, 123, 87, 150},
		{50, 49.5, 50.5, 48, 52, 51},
	}
	for _, closes := range series {
		vol, err := RollingVolatility(closes, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vol < 0 {
			t.Fatalf("volatility must be >= 0, got %v for %v", vol, closes)
		}
	}
}

func TestRollingVolatilityFlatIsZero(t *testing.T) {
	vol, err := RollingVolatility([]float64{42, 42, 42, 42, 42, 42}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol != 0 {
		t.Fatalf("flat series must have zero volatility, got %v", vol)
	}
}

func TestRollingVolatilityAlternating(t *testing.T) {
	// Returns alternate -9% and +9.89%; std must land near 0.094.
	closes := make([]float64, 0, 31)
	for i := 0; i < 31; i++ {
		if i%2 == 0 {
			closes = append(closes, 100)
		} else {
			closes = append(closes, 91)
		}
	}
	vol, err := RollingVolatility(closes, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol < 0.08 || vol > 0.11 {
		t.Fatalf("expected vol near 0.094, got %v", vol)
	}
}

func TestPercentileRankFreshMaximum(t *testing.T) {
	closes := []float64{5, 3, 8, 2, 9, 7, 10}
	rank, err := PercentileRank(closes, len(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := float64(len(closes)-1) / float64(len(closes))
	if rank != want {
		t.Fatalf("fresh maximum must rank %v, got %v", want, rank)
	}
}

func TestPercentileRankFlat(t *testing.T) {
	rank, err := PercentileRank([]float64{7, 7, 7, 7}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rank != 0 {
		t.Fatalf("flat series must rank 0, got %v", rank)
	}
}

func TestPercentChange(t *testing.T) {
	got, err := PercentChange([]float64{100, 120, 150}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestPercentChangeInsufficient(t *testing.T) {
	_, err := PercentChange([]float64{100, 120}, 2)
	var ins *models.InsufficientDataError
	if !errors.As(err, &ins) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestDrawdownFromPeak(t *testing.T) {
	dd, err := DrawdownFromPeak([]float64{100, 200, 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(dd-(-0.25)) > 1e-12 {
		t.Fatalf("expected -0.25, got %v", dd)
	}
	if dd > 0 {
		t.Fatalf("drawdown must never be positive")
	}
}

func TestDrawdownAtHistoricalMaximum(t *testing.T) {
	dd, err := DrawdownFromPeak([]float64{50, 80, 120})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dd != 0 {
		t.Fatalf("drawdown at the peak bar must be 0, got %v", dd)
	}
}
