// Package scoring maps clue usage to the star rating of a solved case.
package scoring

// MaxStars is the rating for solving a case without revealing any clues.
const MaxStars = 4

// Score returns the star rating and rank label for the number of clues used
// at the moment of accusation. The rating is computed once from the captured
// clue count and never recomputed afterwards.
func Score(cluesUsed int) (int, string) {
	switch cluesUsed {
	case 0:
		return 4, "MASTERMIND"
	case 1:
		return 3, "SHARP-EYED"
	case 2:
		return 2, "PERSISTENT"
	case 3:
		return 1, "THOROUGH"
	default:
		// Defensive fallback for out-of-range input.
		return 1, "THOROUGH"
	}
}

// Stars returns only the star rating for the number of clues used.
func Stars(cluesUsed int) int {
	stars, _ := Score(cluesUsed)
	return stars
}

// CurrentStars is the live rating shown during an active session. It
// decrements immediately when a clue is revealed, before any commitment.
func CurrentStars(revealedClues int) int {
	return MaxStars - revealedClues
}
