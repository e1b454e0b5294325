// Package achievements evaluates which badges a completion unlocks against
// the accumulated player record.
package achievements

import (
	"fmt"
	"github.com/myrjola/dailysleuth/internal/models"
)

// Achievement describes one badge. Display order follows the canonical list,
// not discovery order.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Emoji       string
}

const (
	FirstSolve   = "first-solve"
	Mastermind   = "mastermind"
	QuickDraw    = "quick-draw"
	Exhaustive   = "exhaustive"
	WeekStreak   = "week-streak"
	Marathon     = "marathon"
	Veteran      = "veteran"
	Unassisted   = "unassisted"
	FlawlessHard = "flawless-hard"
)

// canonical is the fixed display order of the built-in achievements.
var canonical = []Achievement{
	{ID: FirstSolve, Title: "First Case Closed", Description: "Solve your first case.", Emoji: "🔎"},
	{ID: Mastermind, Title: "Mastermind", Description: "Solve a case without revealing a single clue.", Emoji: "🧠"},
	{ID: QuickDraw, Title: "Quick Draw", Description: "Solve a case in under a minute.", Emoji: "⚡"},
	{ID: Exhaustive, Title: "Leave No Stone", Description: "Reveal every clue and still catch the culprit.", Emoji: "🪨"},
	{ID: WeekStreak, Title: "Seven Days a Sleuth", Description: "Keep a seven-day daily streak.", Emoji: "📅"},
	{ID: Marathon, Title: "Marathon Detective", Description: "Keep a thirty-day daily streak.", Emoji: "🏃"},
	{ID: Veteran, Title: "Veteran Investigator", Description: "Solve ten cases correctly.", Emoji: "🎖️"},
	{ID: Unassisted, Title: "No Help Needed", Description: "Solve a case without hints.", Emoji: "🙅"},
	{ID: FlawlessHard, Title: "Flawless Under Pressure", Description: "A four-star solve on the hardest tier.", Emoji: "💎"},
}

// Canonical returns the built-in achievements in display order.
func Canonical() []Achievement {
	out := make([]Achievement, len(canonical))
	copy(out, canonical)
	return out
}

// PackAchievementID is the id of the completion badge for a puzzle pack.
func PackAchievementID(packID string) string {
	return fmt.Sprintf("pack-%s", packID)
}

// Evaluate returns the ids of achievements newly unlocked by the completion
// event, in canonical order, excluding ids the record already holds.
//
// The record may or may not already contain the event's completion: the
// event entry is merged logically, so counting predicates see the
// just-completed puzzle exactly once either way. Predicates are independent;
// a single event may unlock several at once.
func Evaluate(state models.PlayerState, event models.CompletionEvent, packs []models.Pack) []string {
	var unlocked []string
	add := func(id string) {
		if !state.HasAchievement(id) {
			unlocked = append(unlocked, id)
		}
	}

	correctBefore := 0
	for id, completion := range state.CompletedPuzzles {
		if id != event.PuzzleID && completion.Correct {
			correctBefore++
		}
	}
	correctTotal := correctBefore
	if event.Correct {
		correctTotal++
	}

	if event.Correct && correctBefore == 0 {
		add(FirstSolve)
	}
	if event.Correct && event.Stars == 4 {
		add(Mastermind)
	}
	if event.Correct && event.TimeSpent < 60 {
		add(QuickDraw)
	}
	if event.Correct && event.CluesUsed == 3 {
		add(Exhaustive)
	}
	if state.Streak.Current >= 7 || state.Streak.Max >= 7 {
		add(WeekStreak)
	}
	if state.Streak.Current >= 30 || state.Streak.Max >= 30 {
		add(Marathon)
	}
	if correctTotal >= 10 {
		add(Veteran)
	}
	if event.Correct && event.HintsUsed == 0 {
		add(Unassisted)
	}
	if event.Correct && event.Stars == 4 && event.Difficulty == 3 {
		add(FlawlessHard)
	}

	for _, pack := range packs {
		if len(pack.PuzzleIDs) == 0 {
			continue
		}
		if packSolved(state, event, pack) {
			add(PackAchievementID(pack.ID))
		}
	}

	return unlocked
}

// packSolved reports whether every puzzle in the pack has a correct
// completion in the merged view of record plus event.
func packSolved(state models.PlayerState, event models.CompletionEvent, pack models.Pack) bool {
	for _, puzzleID := range pack.PuzzleIDs {
		if puzzleID == event.PuzzleID {
			if !event.Correct {
				return false
			}
			continue
		}
		completion, ok := state.CompletedPuzzles[puzzleID]
		if !ok || !completion.Correct {
			return false
		}
	}
	return true
}
