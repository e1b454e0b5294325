package game

import (
	"context"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/models"
	"log/slog"
	"time"
)

// DefaultDeliberation is how long the "verifying" pause lasts between
// attaching the solution and announcing the verdict.
const DefaultDeliberation = 2 * time.Second

var (
	// ErrNotReady means the accusation guards failed: no suspect selected
	// or the session is not playing.
	ErrNotReady = errors.NewSentinel("accusation not ready")
	// ErrSolutionFetch means fetching the solution failed. The session
	// stays playing and the same confirm action can be retried.
	ErrSolutionFetch = errors.NewSentinel("solution fetch failed")
	// ErrSuperseded means the session was replaced while the fetch was in
	// flight. The stale result was dropped.
	ErrSuperseded = errors.NewSentinel("session superseded during accusation")
)

// SolutionFetcher retrieves the solution document for a puzzle. The solution
// must not be requested before the player confirms an accusation.
type SolutionFetcher interface {
	Solution(ctx context.Context, puzzleID string) (*models.Solution, error)
}

// Director owns the active session and binds its transitions to the solution
// fetch. It enforces the anti-cheat rule: the solution payload is fetched
// only inside ConfirmAccusation, after the player's two-step commit.
type Director struct {
	session      *Session
	fetcher      SolutionFetcher
	logger       *slog.Logger
	deliberation time.Duration
	// generation identifies the session instance so that a fetch resolving
	// after StartPuzzle or Abandon is ignored instead of corrupting the
	// replacement session.
	generation uint64
}

func NewDirector(fetcher SolutionFetcher, logger *slog.Logger, deliberation time.Duration, now func() time.Time) *Director {
	return &Director{
		session:      NewSession(now),
		fetcher:      fetcher,
		logger:       logger.With("source", "Director"),
		deliberation: deliberation,
		generation:   0,
	}
}

// Session exposes the active session for read access by the presentation
// layer and for dispatching reveal/select transitions.
func (d *Director) Session() *Session {
	return d.session
}

// StartPuzzle replaces the active session with a fresh one for the puzzle.
func (d *Director) StartPuzzle(puzzle *models.Puzzle, mode models.Mode) {
	d.generation++
	d.session.Start(puzzle, mode)
}

// Abandon discards the active session without starting a new puzzle.
func (d *Director) Abandon() {
	d.generation++
	d.session.Reset()
}

// ConfirmAccusation runs the commit sequence: capture the selected suspect
// and revealed clue count, fetch the solution, wait out the deliberation
// delay, and resolve the session with the captured values.
//
// The captures happen before the await so that interaction during the
// network round-trip cannot change what gets scored. A retry after
// ErrSolutionFetch reuses the same confirm action and re-captures the same
// values because the session has not advanced.
func (d *Director) ConfirmAccusation(ctx context.Context) (models.CompletionEvent, error) {
	if d.session.Status != StatusPlaying || d.session.SelectedSuspectID == "" {
		return models.CompletionEvent{}, ErrNotReady
	}

	var (
		puzzleID   = d.session.PuzzleID
		suspectID  = d.session.SelectedSuspectID
		cluesUsed  = len(d.session.RevealedClueIDs)
		generation = d.generation
	)

	solution, err := d.fetcher.Solution(ctx, puzzleID)
	if err != nil {
		return models.CompletionEvent{}, errors.Wrap(errors.Join(ErrSolutionFetch, err), "fetch solution",
			slog.String("puzzleID", puzzleID))
	}

	if d.generation != generation {
		d.logger.Debug("dropping solution for abandoned session", "puzzleID", puzzleID)
		return models.CompletionEvent{}, ErrSuperseded
	}
	d.session.SetSolution(solution)

	if err = d.deliberate(ctx); err != nil {
		return models.CompletionEvent{}, err
	}
	if d.generation != generation {
		d.logger.Debug("dropping verdict for abandoned session", "puzzleID", puzzleID)
		return models.CompletionEvent{}, ErrSuperseded
	}

	if !d.session.Accuse(suspectID, cluesUsed) {
		return models.CompletionEvent{}, ErrNotReady
	}
	event, _ := d.session.CompletionEvent()
	d.logger.Info("accusation resolved",
		"puzzleID", puzzleID,
		"correct", event.Correct,
		"stars", event.Stars)
	return event, nil
}

// deliberate waits the fixed delay that lets a "verifying" state play out.
func (d *Director) deliberate(ctx context.Context) error {
	if d.deliberation <= 0 {
		return nil
	}
	timer := time.NewTimer(d.deliberation)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "deliberation interrupted")
	case <-timer.C:
		return nil
	}
}
