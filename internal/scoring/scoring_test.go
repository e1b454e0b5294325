package scoring_test

import (
	"github.com/myrjola/dailysleuth/internal/scoring"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		cluesUsed int
		wantStars int
		wantLabel string
	}{
		{name: "no clues", cluesUsed: 0, wantStars: 4, wantLabel: "MASTERMIND"},
		{name: "one clue", cluesUsed: 1, wantStars: 3, wantLabel: "SHARP-EYED"},
		{name: "two clues", cluesUsed: 2, wantStars: 2, wantLabel: "PERSISTENT"},
		{name: "three clues", cluesUsed: 3, wantStars: 1, wantLabel: "THOROUGH"},
		{name: "out of range falls back to lowest rank", cluesUsed: 4, wantStars: 1, wantLabel: "THOROUGH"},
		{name: "negative falls back to lowest rank", cluesUsed: -1, wantStars: 1, wantLabel: "THOROUGH"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stars, label := scoring.Score(tt.cluesUsed)
			require.Equal(t, tt.wantStars, stars)
			require.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestScoreStrictlyDecreasing(t *testing.T) {
	previous := scoring.MaxStars + 1
	for cluesUsed := 0; cluesUsed <= 3; cluesUsed++ {
		stars := scoring.Stars(cluesUsed)
		require.Less(t, stars, previous, "stars must strictly decrease with clue usage")
		require.GreaterOrEqual(t, stars, 1)
		require.LessOrEqual(t, stars, scoring.MaxStars)
		previous = stars
	}
}

func TestCurrentStars(t *testing.T) {
	for revealed := 0; revealed <= 3; revealed++ {
		require.Equal(t, 4-revealed, scoring.CurrentStars(revealed))
	}
}
