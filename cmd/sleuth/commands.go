package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/dailysleuth/internal/achievements"
	"github.com/myrjola/dailysleuth/internal/daily"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/models"
	"github.com/spf13/cobra"
)

func cmdContext() context.Context {
	return context.Background()
}

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Play today's case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}
			defer app.close()

			ctx := cmdContext()
			app.store.Load(ctx)

			manifest, err := app.client.Manifest(ctx)
			if err != nil {
				return errors.Wrap(err, "load manifest")
			}
			if len(manifest.Daily) == 0 {
				return errors.New("manifest has no daily pool")
			}

			now := time.Now()
			puzzleID := manifest.Daily[daily.Index(len(manifest.Daily), now)]
			puzzle, err := app.client.DailyPuzzle(ctx, puzzleID)
			if err != nil {
				return errors.Wrap(err, "load daily puzzle", slog.String("puzzleID", puzzleID))
			}

			cmd.Printf("Case #%d — %s\n", daily.PuzzleNumber(now), puzzle.Title)
			if completion, done := app.store.State().CompletedPuzzles[puzzleID]; done {
				cmd.Printf("You already closed this case (%d★). Replaying overwrites the result.\n",
					completion.Stars)
			}

			return app.play(cmd, puzzle, models.ModeDaily, manifest.Packs)
		},
	}
}

func practiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "practice <puzzle-id>",
		Short: "Play a practice-pack case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}
			defer app.close()

			ctx := cmdContext()
			app.store.Load(ctx)

			manifest, err := app.client.Manifest(ctx)
			if err != nil {
				return errors.Wrap(err, "load manifest")
			}

			puzzleID := args[0]
			puzzle, err := app.client.PackPuzzle(ctx, puzzleID)
			if err != nil {
				return errors.Wrap(err, "load pack puzzle", slog.String("puzzleID", puzzleID))
			}

			cmd.Printf("Practice — %s\n", puzzle.Title)
			return app.play(cmd, puzzle, models.ModePractice, manifest.Packs)
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streak, history, and achievements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}
			defer app.close()

			app.store.Load(cmdContext())
			state := app.store.State()

			cmd.Printf("Streak: %d (best %d)\n", state.Streak.Current, state.Streak.Max)
			cmd.Printf("Cases solved: %d of %d played\n",
				state.CorrectCompletions(), len(state.CompletedPuzzles))

			cmd.Println("Achievements:")
			for _, achievement := range achievements.Canonical() {
				marker := " "
				if state.HasAchievement(achievement.ID) {
					marker = achievement.Emoji
				}
				cmd.Printf("  [%s] %s — %s\n", marker, achievement.Title, achievement.Description)
			}
			for _, id := range state.Achievements {
				if len(id) > 5 && id[:5] == "pack-" {
					cmd.Printf("  [🏆] Completed pack %s\n", id[5:])
				}
			}
			return nil
		},
	}
}

func fmtStars(stars int) string {
	out := ""
	for i := 0; i < stars; i++ {
		out += "★"
	}
	for i := stars; i < 4; i++ {
		out += "☆"
	}
	return out
}
