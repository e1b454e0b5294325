// Package player holds the durable, cross-session record of one client:
// completion history, streak, achievements, and settings.
package player

import (
	"context"
	"encoding/json"
	"github.com/myrjola/dailysleuth/internal/achievements"
	"github.com/myrjola/dailysleuth/internal/daily"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/models"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period that coalesces rapid successive
// mutations into a single storage write.
const DefaultDebounce = 300 * time.Millisecond

// Store is the player record state machine. Every transition mutates the
// in-memory state and schedules a debounced persist. Storage failures are
// recovered silently: a failed write means the next successful write carries
// the latest state forward.
type Store struct {
	mu        sync.Mutex
	state     models.PlayerState
	snapshots SnapshotStore
	logger    *slog.Logger
	debounce  time.Duration
	timer     *time.Timer
	now       func() time.Time
}

// NewStore creates a player record store over the given snapshot storage.
// The now function stamps completion times and streak dates and defaults to
// time.Now.
func NewStore(snapshots SnapshotStore, logger *slog.Logger, debounce time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		state:     models.DefaultPlayerState(),
		snapshots: snapshots,
		logger:    logger.With("source", "player.Store"),
		debounce:  debounce,
		now:       now,
	}
}

// Load replaces the in-memory state with the persisted snapshot merged over
// defaults. Missing or corrupt snapshots fall back to fresh defaults; this
// is a recoverable condition, never fatal.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.snapshots.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			s.logger.Warn("could not read snapshot, starting fresh", errors.SlogError(err))
		}
		s.state = models.DefaultPlayerState()
		return
	}

	state, err := decodeSnapshot(blob)
	if err != nil {
		s.logger.Warn("corrupt snapshot, starting fresh", errors.SlogError(err))
		s.state = models.DefaultPlayerState()
		return
	}
	s.state = state
}

// decodeSnapshot validates the minimal shape of a persisted blob before
// trusting it. Snapshots from older versions may miss newer fields; those
// merge over defaults.
func decodeSnapshot(blob []byte) (models.PlayerState, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(blob, &shape); err != nil {
		return models.PlayerState{}, errors.Wrap(err, "unmarshal snapshot")
	}
	for _, key := range []string{"completedPuzzles", "streak", "settings"} {
		if _, ok := shape[key]; !ok {
			return models.PlayerState{}, errors.New("snapshot missing core key", slog.String("key", key))
		}
	}
	var state models.PlayerState
	if err := json.Unmarshal(blob, &state); err != nil {
		return models.PlayerState{}, errors.Wrap(err, "unmarshal player state")
	}
	return state.MergeDefaults(), nil
}

// State returns a copy of the current record safe to read concurrently with
// further transitions.
func (s *Store) State() models.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

func copyState(state models.PlayerState) models.PlayerState {
	out := state
	out.CompletedPuzzles = make(map[string]models.Completion, len(state.CompletedPuzzles))
	for id, completion := range state.CompletedPuzzles {
		out.CompletedPuzzles[id] = completion
	}
	out.Achievements = append([]string(nil), state.Achievements...)
	return out
}

// CompletePuzzle inserts or overwrites the completion for the event's puzzle
// id with a freshly stamped solved-at time. History is keyed by puzzle id;
// replaying a puzzle discards the previous entry.
func (s *Store) CompletePuzzle(event models.CompletionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CompletedPuzzles[event.PuzzleID] = models.Completion{
		SolvedAt:   s.now().UTC().Format(time.RFC3339),
		Correct:    event.Correct,
		CluesUsed:  event.CluesUsed,
		TimeSpent:  event.TimeSpent,
		Stars:      event.Stars,
		Difficulty: event.Difficulty,
		HintsUsed:  event.HintsUsed,
	}
	s.scheduleWrite()
}

// UpdateStreak advances the daily streak for today. Idempotent within a UTC
// calendar day, so duplicate calls cannot double-increment. A gap of two or
// more days resets the run to one.
//
// Callers invoke this only after a correct daily-mode completion; Ingest
// enforces that contract.
func (s *Store) UpdateStreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := daily.DateKey(now)
	if s.state.Streak.LastDailyDate == today {
		return
	}
	if s.state.Streak.LastDailyDate == daily.PreviousDateKey(now) {
		s.state.Streak.Current++
	} else {
		s.state.Streak.Current = 1
	}
	if s.state.Streak.Current > s.state.Streak.Max {
		s.state.Streak.Max = s.state.Streak.Current
	}
	s.state.Streak.LastDailyDate = today
	s.scheduleWrite()
}

// UnlockAchievements unions the ids into the achievement set. Ids already
// present are filtered out; if nothing new remains the dispatch is a no-op.
func (s *Store) UnlockAchievements(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added bool
	for _, id := range ids {
		if s.state.HasAchievement(id) {
			continue
		}
		s.state.Achievements = append(s.state.Achievements, id)
		added = true
	}
	if added {
		s.scheduleWrite()
	}
}

// ToggleReduceMotion flips the reduce-motion setting and returns the new
// value.
func (s *Store) ToggleReduceMotion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings.ReduceMotion = !s.state.Settings.ReduceMotion
	s.scheduleWrite()
	return s.state.Settings.ReduceMotion
}

// DismissTutorial marks the tutorial as seen.
func (s *Store) DismissTutorial() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.HasSeenTutorial {
		return
	}
	s.state.HasSeenTutorial = true
	s.scheduleWrite()
}

// Ingest applies a completion event end to end: record the completion,
// advance the streak when a daily case was solved correctly, and unlock any
// newly qualifying achievements. Returns the newly unlocked ids in canonical
// order.
func (s *Store) Ingest(event models.CompletionEvent, packs []models.Pack) []string {
	s.CompletePuzzle(event)
	if event.Correct && event.Mode == models.ModeDaily {
		s.UpdateStreak()
	}
	newlyUnlocked := achievements.Evaluate(s.State(), event, packs)
	s.UnlockAchievements(newlyUnlocked)
	return newlyUnlocked
}

// scheduleWrite restarts the debounce timer. Only one timer is pending at a
// time; each new mutation pushes the write out by the quiet period. Callers
// must hold the mutex.
func (s *Store) scheduleWrite() {
	if s.debounce <= 0 {
		s.persistLocked(context.Background())
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.persistLocked(context.Background())
	})
}

// persistLocked writes the current state. Failures are logged and swallowed:
// durable storage must never break gameplay.
func (s *Store) persistLocked(ctx context.Context) {
	blob, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("could not marshal player state", errors.SlogError(err))
		return
	}
	if err = s.snapshots.Save(ctx, blob); err != nil {
		s.logger.Warn("could not persist player state", errors.SlogError(err))
	}
}

// Flush cancels any pending debounce timer and writes the state
// synchronously. Call on teardown so the final mutation before shutdown is
// not lost.
func (s *Store) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.persistLocked(ctx)
}
