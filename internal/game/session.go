// Package game holds the per-playthrough state machine and the accusation
// flow that resolves it.
package game

import (
	"github.com/myrjola/dailysleuth/internal/models"
	"github.com/myrjola/dailysleuth/internal/scoring"
	"time"
)

type Status string

const (
	StatusPlaying Status = "playing"
	StatusSolved  Status = "solved"
	StatusFailed  Status = "failed"
)

const (
	maxRevealedClues = 3
	maxRevealedHints = 2
)

// Session is one in-memory playthrough of a single puzzle, from start to
// verdict. It is created by Start and discarded on the next Start or Reset.
//
// Transitions whose guards fail leave the session unchanged and return false.
// That makes every transition safe to call defensively from event handlers
// without pre-checking state.
type Session struct {
	PuzzleID          string
	Mode              models.Mode
	Puzzle            *models.Puzzle
	Solution          *models.Solution
	RevealedClueIDs   []string
	RevealedHintIDs   []string
	SelectedSuspectID string
	Status            Status
	StartedAt         time.Time
	SolvedAt          time.Time
	// ExpandedSuspectID tracks which suspect card the UI has expanded. It
	// carries no game meaning.
	ExpandedSuspectID string
	// CluesUsed and Stars are stamped once at accusation time from the
	// captured clue count and never recomputed.
	CluesUsed int
	Stars     int
	Label     string

	now func() time.Time
}

// NewSession creates a pristine session. The now function stamps start and
// verdict times and defaults to time.Now.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{now: now}
}

// Start seeds the session with a puzzle, discarding any prior state.
func (s *Session) Start(puzzle *models.Puzzle, mode models.Mode) {
	now := s.now
	*s = Session{
		PuzzleID:  puzzle.ID,
		Mode:      mode,
		Puzzle:    puzzle,
		Status:    StatusPlaying,
		StartedAt: now(),
		now:       now,
	}
}

// Reset returns the session to the pristine initial state. Used when
// abandoning a playthrough without starting a new puzzle.
func (s *Session) Reset() {
	now := s.now
	*s = Session{now: now}
}

// RevealClue appends the clue to the revealed list. Reveal order is
// meaningful for display; scoring only counts cardinality. Revealing is
// irreversible and immediately costs a star in the live rating.
func (s *Session) RevealClue(clueID string) bool {
	if s.Status != StatusPlaying {
		return false
	}
	if len(s.RevealedClueIDs) >= maxRevealedClues {
		return false
	}
	if _, ok := s.Puzzle.Clue(clueID); !ok {
		return false
	}
	for _, revealed := range s.RevealedClueIDs {
		if revealed == clueID {
			return false
		}
	}
	s.RevealedClueIDs = append(s.RevealedClueIDs, clueID)
	return true
}

// RevealHint reveals a hint. Hints never affect the star score.
func (s *Session) RevealHint(hintID string) bool {
	if s.Status != StatusPlaying {
		return false
	}
	if len(s.RevealedHintIDs) >= maxRevealedHints {
		return false
	}
	if _, ok := s.Puzzle.Hint(hintID); !ok {
		return false
	}
	for _, revealed := range s.RevealedHintIDs {
		if revealed == hintID {
			return false
		}
	}
	s.RevealedHintIDs = append(s.RevealedHintIDs, hintID)
	return true
}

// SelectSuspect marks the player's current pick. Re-selecting a different
// suspect replaces the previous pick silently.
func (s *Session) SelectSuspect(suspectID string) bool {
	if s.Status != StatusPlaying {
		return false
	}
	if _, ok := s.Puzzle.Suspect(suspectID); !ok {
		return false
	}
	s.SelectedSuspectID = suspectID
	return true
}

// ExpandSuspect toggles which suspect card the UI shows expanded.
func (s *Session) ExpandSuspect(suspectID string) {
	if s.ExpandedSuspectID == suspectID {
		s.ExpandedSuspectID = ""
		return
	}
	s.ExpandedSuspectID = suspectID
}

// SetSolution attaches the fetched solution to the session. Idempotent
// overwrite, allowed in any state.
func (s *Session) SetSolution(solution *models.Solution) {
	s.Solution = solution
}

// Accuse is the single judging step. It resolves the session using the
// given suspect id and clue count, which the accusation flow captures before
// its network await so that concurrent interaction cannot change what gets
// scored. There is no retry of the verdict.
func (s *Session) Accuse(suspectID string, cluesUsed int) bool {
	if s.Status != StatusPlaying {
		return false
	}
	if suspectID == "" || s.Solution == nil {
		return false
	}
	if s.Solution.Culprit == suspectID {
		s.Status = StatusSolved
	} else {
		s.Status = StatusFailed
	}
	s.SolvedAt = s.now()
	s.CluesUsed = cluesUsed
	s.Stars, s.Label = scoring.Score(cluesUsed)
	return true
}

// MakeAccusation resolves the session from its live state. The accusation
// flow prefers Accuse with captured values.
func (s *Session) MakeAccusation() bool {
	return s.Accuse(s.SelectedSuspectID, len(s.RevealedClueIDs))
}

// CurrentStars is the live star rating shown while playing.
func (s *Session) CurrentStars() int {
	return scoring.CurrentStars(len(s.RevealedClueIDs))
}

// Terminal reports whether the session has reached a verdict.
func (s *Session) Terminal() bool {
	return s.Status == StatusSolved || s.Status == StatusFailed
}

// CompletionEvent derives the outcome message for the player record. It is
// only valid once the session is terminal.
func (s *Session) CompletionEvent() (models.CompletionEvent, bool) {
	if !s.Terminal() {
		return models.CompletionEvent{}, false
	}
	difficulty := 0
	if s.Puzzle != nil {
		difficulty = s.Puzzle.Difficulty
	}
	return models.CompletionEvent{
		PuzzleID:   s.PuzzleID,
		Mode:       s.Mode,
		Correct:    s.Status == StatusSolved,
		CluesUsed:  s.CluesUsed,
		TimeSpent:  int(s.SolvedAt.Sub(s.StartedAt) / time.Second),
		Stars:      s.Stars,
		Label:      s.Label,
		Difficulty: difficulty,
		HintsUsed:  len(s.RevealedHintIDs),
	}, true
}
