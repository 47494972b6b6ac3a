package signals

import (
	"testing"

	"RiskBarometer/internal/domain/models"
)

func TestLevelBreakpoints(t *testing.T) {
	cases := []struct {
		score int
		want  models.RiskLevel
	}{
		{0, models.LevelLow},
		{30, models.LevelLow},
		{31, models.LevelCaution},
		{50, models.LevelCaution},
		{51, models.LevelWarning},
		{70, models.LevelWarning},
		{71, models.LevelDanger},
		{100, models.LevelDanger},
	}
	for _, c := range cases {
		if got := LevelForScore(c.score); got != c.want {
			t.Fatalf("score %d: expected %s, got %s", c.score, c.want, got)
		}
	}
}

func TestScoreIgnoresUntriggered(t *testing.T) {
	results := []models.SignalResult{
		{Name: "a", Weight: 30, Triggered: true},
		{Name: "b", Weight: 25, Triggered: false},
		{Name: "c", Weight: 15, Triggered: true},
	}
	if got := Score(results); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
}

func TestScoreCappedAtHundred(t *testing.T) {
	results := make([]models.SignalResult, 0, 6)
	for i := 0; i < 6; i++ {
		results = append(results, models.SignalResult{Name: "x", Weight: 30, Triggered: true})
	}
	if got := Score(results); got != 100 {
		t.Fatalf("expected cap at 100, got %d", got)
	}
}

func TestRecommendationPerLevel(t *testing.T) {
	for _, level := range []models.RiskLevel{
		models.LevelLow, models.LevelCaution, models.LevelWarning, models.LevelDanger,
	} {
		if RecommendationFor(level) == "" {
			t.Fatalf("missing recommendation for %s", level)
		}
	}
}

func TestBuildReportBindsRecommendationToLevel(t *testing.T) {
	report := BuildReport([]models.SignalResult{
		{Name: "a", Weight: 60, Triggered: true},
	})
	if report.Level != models.LevelWarning {
		t.Fatalf("expected WARNING, got %s", report.Level)
	}
	if report.Recommendation != RecommendationFor(models.LevelWarning) {
		t.Fatalf("recommendation not bound to level")
	}
}
