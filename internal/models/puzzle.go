package models

import (
	"github.com/myrjola/dailysleuth/internal/errors"
	"log/slog"
)

const (
	// SuspectCount is the number of suspects in every puzzle.
	SuspectCount = 4
	// ClueCount is the number of clues in every puzzle.
	ClueCount = 3
	// MaxHints is the maximum number of hints a puzzle may carry.
	MaxHints = 2
)

type ClueType string

const (
	ClueTypeWitness       ClueType = "witness"
	ClueTypePhysical      ClueType = "physical"
	ClueTypeContradiction ClueType = "contradiction"
)

// Suspect is one of the four persons of interest in a puzzle.
type Suspect struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Motive string `json:"motive"`
	Alibi  string `json:"alibi"`
}

// Clue is a revealable piece of evidence. Revealing one costs a star.
type Clue struct {
	ID      string   `json:"id"`
	Type    ClueType `json:"type"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Order   int      `json:"order"`
}

// Hint is an optional nudge that never affects the star score.
type Hint struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// Puzzle is an immutable, externally supplied case definition.
type Puzzle struct {
	ID         string    `json:"id"`
	Version    int       `json:"version"`
	Genre      string    `json:"genre"`
	Difficulty int       `json:"difficulty"`
	Title      string    `json:"title"`
	Setting    string    `json:"setting"`
	Premise    string    `json:"premise"`
	Suspects   []Suspect `json:"suspects"`
	Clues      []Clue    `json:"clues"`
	Hints      []Hint    `json:"hints,omitempty"`
}

// Validate checks the structural invariants of a puzzle document before it is
// trusted by the rest of the game.
func (p *Puzzle) Validate() error {
	var errorList []error

	if p.ID == "" {
		errorList = append(errorList, errors.New("puzzle id is empty"))
	}
	if p.Difficulty < 1 || p.Difficulty > 3 {
		errorList = append(errorList, errors.New("difficulty out of range",
			slog.Int("difficulty", p.Difficulty)))
	}
	if len(p.Suspects) != SuspectCount {
		errorList = append(errorList, errors.New("wrong number of suspects",
			slog.Int("count", len(p.Suspects))))
	}
	if len(p.Clues) != ClueCount {
		errorList = append(errorList, errors.New("wrong number of clues",
			slog.Int("count", len(p.Clues))))
	}
	if len(p.Hints) > MaxHints {
		errorList = append(errorList, errors.New("too many hints",
			slog.Int("count", len(p.Hints))))
	}

	suspectIDs := make(map[string]struct{}, len(p.Suspects))
	for _, s := range p.Suspects {
		if _, ok := suspectIDs[s.ID]; ok {
			errorList = append(errorList, errors.New("duplicate suspect id", slog.String("id", s.ID)))
		}
		suspectIDs[s.ID] = struct{}{}
	}

	clueIDs := make(map[string]struct{}, len(p.Clues))
	clueOrders := make(map[int]struct{}, len(p.Clues))
	for _, c := range p.Clues {
		if _, ok := clueIDs[c.ID]; ok {
			errorList = append(errorList, errors.New("duplicate clue id", slog.String("id", c.ID)))
		}
		clueIDs[c.ID] = struct{}{}
		clueOrders[c.Order] = struct{}{}
	}
	if len(p.Clues) == ClueCount {
		// Orders must be the contiguous set {1, 2, 3}.
		for order := 1; order <= ClueCount; order++ {
			if _, ok := clueOrders[order]; !ok {
				errorList = append(errorList, errors.New("clue orders not contiguous",
					slog.Int("missingOrder", order)))
			}
		}
	}

	if len(errorList) != 0 {
		return errors.Join(errorList...)
	}
	return nil
}

// Suspect looks up a suspect by id.
func (p *Puzzle) Suspect(id string) (Suspect, bool) {
	for _, s := range p.Suspects {
		if s.ID == id {
			return s, true
		}
	}
	return Suspect{}, false
}

// Clue looks up a clue by id.
func (p *Puzzle) Clue(id string) (Clue, bool) {
	for _, c := range p.Clues {
		if c.ID == id {
			return c, true
		}
	}
	return Clue{}, false
}

// Hint looks up a hint by id.
func (p *Puzzle) Hint(id string) (Hint, bool) {
	for _, h := range p.Hints {
		if h.ID == id {
			return h, true
		}
	}
	return Hint{}, false
}

// Solution is fetched lazily and must never be held in memory before the
// player commits to an accusation.
type Solution struct {
	Culprit     string `json:"culprit"`
	Explanation string `json:"explanation"`
	FunFact     string `json:"funFact,omitempty"`
}

// Validate checks that the solution references a suspect of the puzzle.
func (s *Solution) Validate(p *Puzzle) error {
	if _, ok := p.Suspect(s.Culprit); !ok {
		return errors.New("culprit is not a suspect",
			slog.String("culprit", s.Culprit),
			slog.String("puzzleID", p.ID))
	}
	return nil
}

// Pack is a themed, ordered collection of practice puzzles.
type Pack struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Genre     string   `json:"genre"`
	Emoji     string   `json:"emoji"`
	PuzzleIDs []string `json:"puzzleIds"`
}

// Manifest is the content index listing the daily pool and the packs.
type Manifest struct {
	Daily      []string       `json:"daily"`
	Packs      []Pack         `json:"packs"`
	Difficulty map[string]int `json:"difficulty,omitempty"`
}
