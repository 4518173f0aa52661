package ledger

import (
	"math"
	"testing"
)

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name       string
		daily      float64
		weekBefore float64
		wantTier   Tier
		wantMult   float64
		wantDaily  float64
		wantWeekly float64
	}{
		{name: "regular short day", daily: 6, weekBefore: 20, wantTier: TierRegular, wantMult: 1.0},
		{name: "approaching at 7.5", daily: 7.5, weekBefore: 0, wantTier: TierApproaching, wantMult: 1.0},
		{name: "half hour over 8", daily: 8.5, weekBefore: 0, wantTier: TierOvertime, wantMult: 1.5, wantDaily: 0.5},
		{name: "13 hour day", daily: 13, weekBefore: 0, wantTier: TierDoubleTime, wantMult: 2.0, wantDaily: 1},
		{name: "weekly overtime 35 plus 7", daily: 7, weekBefore: 35, wantTier: TierOvertime, wantMult: 1.5, wantWeekly: 2},
		{name: "daily rule beats weekly", daily: 9, weekBefore: 39, wantTier: TierOvertime, wantMult: 1.5, wantDaily: 1},
		{name: "exactly 8 with light week", daily: 8, weekBefore: 10, wantTier: TierApproaching, wantMult: 1.0},
		{name: "weekly rule outranks warning tier", daily: 7.5, weekBefore: 35, wantTier: TierOvertime, wantMult: 1.5, wantWeekly: 2.5},
		{name: "exactly 40 week", daily: 5, weekBefore: 35, wantTier: TierRegular, wantMult: 1.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.daily, tc.weekBefore)
			if got.Tier != tc.wantTier {
				t.Fatalf("tier = %s, want %s", got.Tier, tc.wantTier)
			}
			if got.Multiplier != tc.wantMult {
				t.Fatalf("multiplier = %v, want %v", got.Multiplier, tc.wantMult)
			}
			if math.Abs(got.DailyExtra-tc.wantDaily) > 1e-9 {
				t.Fatalf("daily extra = %v, want %v", got.DailyExtra, tc.wantDaily)
			}
			if math.Abs(got.WeeklyExtra-tc.wantWeekly) > 1e-9 {
				t.Fatalf("weekly extra = %v, want %v", got.WeeklyExtra, tc.wantWeekly)
			}
		})
	}
}

func TestClassifyMultiplierMonotonic(t *testing.T) {
	for _, weekBefore := range []float64{0, 20, 39, 45} {
		prev := 0.0
		for daily := 0.0; daily <= 16; daily += 0.25 {
			mult := Classify(daily, weekBefore).Multiplier
			if mult < prev {
				t.Fatalf("multiplier dropped from %v to %v at daily=%v weekBefore=%v",
					prev, mult, daily, weekBefore)
			}
			prev = mult
		}
	}
}
