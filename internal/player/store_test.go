package player_test

import (
	"context"
	"encoding/json"
	"github.com/myrjola/dailysleuth/internal/achievements"
	"github.com/myrjola/dailysleuth/internal/models"
	"github.com/myrjola/dailysleuth/internal/player"
	"github.com/myrjola/dailysleuth/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"sync"
	"testing"
	"time"
)

// fakeSnapshots is an in-memory SnapshotStore that counts writes.
type fakeSnapshots struct {
	mu      sync.Mutex
	blob    []byte
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeSnapshots) Load(_ context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.blob == nil {
		return nil, player.ErrNoSnapshot
	}
	return f.blob, nil
}

func (f *fakeSnapshots) Save(_ context.Context, blob []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.blob = append([]byte(nil), blob...)
	f.saves++
	return nil
}

func (f *fakeSnapshots) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type testClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

func newTestStore(t *testing.T) (*player.Store, *fakeSnapshots, *testClock) {
	t.Helper()
	snapshots := &fakeSnapshots{}
	clock := &testClock{at: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	store := player.NewStore(snapshots, testhelpers.NewLogger(io.Discard), 0, clock.now)
	store.Load(context.Background())
	return store, snapshots, clock
}

func solvedEvent(puzzleID string) models.CompletionEvent {
	return models.CompletionEvent{
		PuzzleID:   puzzleID,
		Mode:       models.ModeDaily,
		Correct:    true,
		CluesUsed:  0,
		TimeSpent:  45,
		Stars:      4,
		Label:      "MASTERMIND",
		Difficulty: 2,
		HintsUsed:  0,
	}
}

func TestStoreUpdateStreakIdempotentWithinDay(t *testing.T) {
	t.Parallel()
	store, _, _ := newTestStore(t)

	store.CompletePuzzle(solvedEvent("p1"))
	store.UpdateStreak()
	store.UpdateStreak()

	state := store.State()
	require.Equal(t, 1, state.Streak.Current, "same-day duplicate must not double-increment")
	require.Equal(t, 1, state.Streak.Max)
	require.Equal(t, "2026-03-01", state.Streak.LastDailyDate)
}

func TestStoreUpdateStreakConsecutiveDays(t *testing.T) {
	t.Parallel()
	store, _, clock := newTestStore(t)

	store.UpdateStreak()
	clock.advance(24 * time.Hour)
	store.UpdateStreak()
	clock.advance(24 * time.Hour)
	store.UpdateStreak()

	state := store.State()
	require.Equal(t, 3, state.Streak.Current)
	require.Equal(t, 3, state.Streak.Max)
}

func TestStoreUpdateStreakGapResets(t *testing.T) {
	t.Parallel()
	store, _, clock := newTestStore(t)

	store.UpdateStreak()
	clock.advance(24 * time.Hour)
	store.UpdateStreak()

	clock.advance(49 * time.Hour)
	store.UpdateStreak()

	state := store.State()
	require.Equal(t, 1, state.Streak.Current, "a 2+ day gap resets the run")
	require.Equal(t, 2, state.Streak.Max, "max never decreases")
}

func TestStoreCompletePuzzleOverwrites(t *testing.T) {
	t.Parallel()
	store, _, _ := newTestStore(t)

	store.CompletePuzzle(solvedEvent("p1"))
	replay := solvedEvent("p1")
	replay.CluesUsed = 3
	replay.Stars = 1
	store.CompletePuzzle(replay)

	state := store.State()
	require.Len(t, state.CompletedPuzzles, 1, "replay overwrites, never duplicates")
	require.Equal(t, 1, state.CompletedPuzzles["p1"].Stars)
}

func TestStoreLoadFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{name: "missing snapshot", blob: nil},
		{name: "corrupt JSON", blob: []byte(`{"completedPuzzles": `)},
		{name: "missing core key", blob: []byte(`{"completedPuzzles":{},"streak":{}}`)},
		{name: "not an object", blob: []byte(`42`)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			snapshots := &fakeSnapshots{blob: tt.blob}
			store := player.NewStore(snapshots, testhelpers.NewLogger(io.Discard), 0, nil)
			store.Load(context.Background())

			state := store.State()
			require.Equal(t, models.DefaultPlayerState(), state)
		})
	}
}

func TestStoreLoadMergesOlderSnapshotOverDefaults(t *testing.T) {
	t.Parallel()
	// A snapshot written before the achievements field existed.
	old := []byte(`{
		"completedPuzzles": {"p1": {"solvedAt": "2026-02-28T10:00:00Z", "correct": true, "cluesUsed": 1, "timeSpent": 80, "stars": 3}},
		"streak": {"current": 2, "max": 5, "lastDailyDate": "2026-02-28"},
		"settings": {"reduceMotion": true}
	}`)
	snapshots := &fakeSnapshots{blob: old}
	store := player.NewStore(snapshots, testhelpers.NewLogger(io.Discard), 0, nil)
	store.Load(context.Background())

	state := store.State()
	require.Equal(t, 2, state.Streak.Current)
	require.Equal(t, 5, state.Streak.Max)
	require.True(t, state.Settings.ReduceMotion)
	require.NotNil(t, state.Achievements, "missing fields get safe defaults")
	require.Empty(t, state.Achievements)
	require.Equal(t, 3, state.CompletedPuzzles["p1"].Stars)
}

func TestStoreDebounceCoalescesWrites(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{}
	store := player.NewStore(snapshots, testhelpers.NewLogger(io.Discard), 20*time.Millisecond, nil)
	store.Load(context.Background())

	store.CompletePuzzle(solvedEvent("p1"))
	store.UpdateStreak()
	store.DismissTutorial()
	store.ToggleReduceMotion()
	require.Zero(t, snapshots.saveCount(), "write must wait out the quiet period")

	require.Eventually(t, func() bool { return snapshots.saveCount() == 1 },
		time.Second, 5*time.Millisecond, "rapid dispatches coalesce into one write")

	// The coalesced write carries the final state.
	var persisted models.PlayerState
	require.NoError(t, json.Unmarshal(snapshots.blob, &persisted))
	require.True(t, persisted.HasSeenTutorial)
	require.True(t, persisted.Settings.ReduceMotion)
	require.Len(t, persisted.CompletedPuzzles, 1)
}

func TestStoreFlushWritesPendingState(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{}
	store := player.NewStore(snapshots, testhelpers.NewLogger(io.Discard), time.Hour, nil)
	store.Load(context.Background())

	store.DismissTutorial()
	require.Zero(t, snapshots.saveCount())

	store.Flush(context.Background())
	require.Equal(t, 1, snapshots.saveCount(), "teardown must not lose the final mutation")
}

func TestStoreStorageFailuresAreSilent(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{saveErr: context.DeadlineExceeded}
	store := player.NewStore(snapshots, testhelpers.NewLogger(io.Discard), 0, nil)
	store.Load(context.Background())

	// No panic, no error surfaced; the in-memory state still advances.
	store.CompletePuzzle(solvedEvent("p1"))
	require.Len(t, store.State().CompletedPuzzles, 1)

	// Once storage recovers, the next write carries the latest state.
	snapshots.mu.Lock()
	snapshots.saveErr = nil
	snapshots.mu.Unlock()
	store.Flush(context.Background())
	require.Equal(t, 1, snapshots.saveCount())
}

func TestStoreIngestAppliesCompletionFlow(t *testing.T) {
	t.Parallel()
	store, _, _ := newTestStore(t)

	unlocked := store.Ingest(solvedEvent("p1"), nil)
	require.Equal(t, []string{
		achievements.FirstSolve,
		achievements.Mastermind,
		achievements.QuickDraw,
		achievements.Unassisted,
	}, unlocked)

	state := store.State()
	require.Equal(t, 1, state.Streak.Current)
	require.Equal(t, unlocked, state.Achievements)
}

func TestStoreIngestFailedAttemptSkipsStreak(t *testing.T) {
	t.Parallel()
	store, _, _ := newTestStore(t)

	failed := solvedEvent("p1")
	failed.Correct = false
	unlocked := store.Ingest(failed, nil)

	require.Empty(t, unlocked)
	state := store.State()
	require.Zero(t, state.Streak.Current, "failed attempts never advance the streak")
	require.Len(t, state.CompletedPuzzles, 1, "failed attempts are still recorded")
}

func TestStoreIngestPracticeSkipsStreak(t *testing.T) {
	t.Parallel()
	store, _, _ := newTestStore(t)

	practice := solvedEvent("q1")
	practice.Mode = models.ModePractice
	store.Ingest(practice, nil)

	require.Zero(t, store.State().Streak.Current, "practice puzzles never advance the streak")
}
