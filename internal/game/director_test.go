package game_test

import (
	"context"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/game"
	"github.com/myrjola/dailysleuth/internal/models"
	"github.com/myrjola/dailysleuth/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

// fakeFetcher stands in for the content client. onFetch runs before the
// result is returned, simulating interaction during the network round-trip.
type fakeFetcher struct {
	solution *models.Solution
	err      error
	calls    int
	onFetch  func()
}

func (f *fakeFetcher) Solution(_ context.Context, _ string) (*models.Solution, error) {
	f.calls++
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.solution, nil
}

func newTestDirector(fetcher *fakeFetcher) *game.Director {
	logger := testhelpers.NewLogger(io.Discard)
	return game.NewDirector(fetcher, logger, 0, nil)
}

func TestDirectorDoesNotFetchBeforeCommit(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{solution: &models.Solution{Culprit: "s1"}}
	d := newTestDirector(fetcher)
	d.StartPuzzle(testPuzzle(), models.ModeDaily)

	_, err := d.ConfirmAccusation(context.Background())
	require.ErrorIs(t, err, game.ErrNotReady)
	require.Zero(t, fetcher.calls, "solution must not be fetched without a committed accusation")
}

func TestDirectorResolvesWithCapturedValues(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{solution: &models.Solution{Culprit: "s3", Explanation: "Insurance fraud."}}
	d := newTestDirector(fetcher)
	d.StartPuzzle(testPuzzle(), models.ModeDaily)

	session := d.Session()
	require.True(t, session.RevealClue("c1"))
	require.True(t, session.RevealClue("c2"))
	require.True(t, session.SelectSuspect("s3"))

	// The player keeps clicking while the fetch is in flight. The captured
	// values, not the live state, decide the score.
	fetcher.onFetch = func() {
		session.RevealClue("c3")
		session.SelectSuspect("s1")
	}

	event, err := d.ConfirmAccusation(context.Background())
	require.NoError(t, err)
	require.Equal(t, game.StatusSolved, session.Status)
	require.True(t, event.Correct)
	require.Equal(t, 2, event.CluesUsed)
	require.Equal(t, 2, event.Stars)
	require.Equal(t, "PERSISTENT", event.Label)
}

func TestDirectorFetchFailureIsRetryable(t *testing.T) {
	t.Parallel()
	fetchErr := errors.NewSentinel("boom")
	fetcher := &fakeFetcher{err: fetchErr}
	d := newTestDirector(fetcher)
	d.StartPuzzle(testPuzzle(), models.ModeDaily)

	session := d.Session()
	require.True(t, session.RevealClue("c1"))
	require.True(t, session.SelectSuspect("s2"))

	_, err := d.ConfirmAccusation(context.Background())
	require.ErrorIs(t, err, game.ErrSolutionFetch)
	require.ErrorIs(t, err, fetchErr)
	require.Equal(t, game.StatusPlaying, session.Status, "session stays playing after a failed fetch")
	require.Nil(t, session.Solution)

	// Retrying the same confirm action succeeds with the same captured values.
	fetcher.err = nil
	fetcher.solution = &models.Solution{Culprit: "s2"}
	event, err := d.ConfirmAccusation(context.Background())
	require.NoError(t, err)
	require.True(t, event.Correct)
	require.Equal(t, 1, event.CluesUsed)
	require.Equal(t, 2, fetcher.calls)
}

func TestDirectorDropsStaleFetch(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{solution: &models.Solution{Culprit: "s1"}}
	d := newTestDirector(fetcher)
	d.StartPuzzle(testPuzzle(), models.ModeDaily)

	session := d.Session()
	require.True(t, session.SelectSuspect("s1"))

	// The player abandons mid-accusation and starts a new puzzle while the
	// fetch is in flight.
	fetcher.onFetch = func() {
		d.StartPuzzle(testPuzzle(), models.ModePractice)
	}

	_, err := d.ConfirmAccusation(context.Background())
	require.ErrorIs(t, err, game.ErrSuperseded)
	require.Equal(t, game.StatusPlaying, session.Status, "replacement session is untouched")
	require.Nil(t, session.Solution, "stale solution must not attach to the new session")
}

func TestDirectorAbandonDropsVerdict(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{solution: &models.Solution{Culprit: "s1"}}
	d := newTestDirector(fetcher)
	d.StartPuzzle(testPuzzle(), models.ModeDaily)
	require.True(t, d.Session().SelectSuspect("s1"))

	fetcher.onFetch = func() { d.Abandon() }

	_, err := d.ConfirmAccusation(context.Background())
	require.ErrorIs(t, err, game.ErrSuperseded)
	require.False(t, d.Session().Terminal())
}
