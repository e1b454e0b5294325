package main

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/myrjola/dailysleuth/internal/achievements"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/game"
	"github.com/myrjola/dailysleuth/internal/models"
	"github.com/spf13/cobra"
)

// play runs the interactive loop for one case. All game rules live in the
// session and director; this loop only translates lines of input into
// transitions and prints the results.
func (app *application) play(cmd *cobra.Command, puzzle *models.Puzzle, mode models.Mode, packs []models.Pack) error {
	app.director.StartPuzzle(puzzle, mode)
	session := app.director.Session()

	cmd.Printf("\n%s\n%s\n\n", puzzle.Setting, puzzle.Premise)
	printSuspects(cmd, puzzle)
	cmd.Println("\nCommands: clue, hint, suspects, select <n>, accuse, quit")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for session.Status == game.StatusPlaying {
		cmd.Printf("\n%s> ", fmtStars(session.CurrentStars()))
		if !scanner.Scan() {
			app.director.Abandon()
			return scanner.Err()
		}
		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "clue":
			app.revealNextClue(cmd, session)
		case "hint":
			app.revealNextHint(cmd, session)
		case "suspects":
			printSuspects(cmd, puzzle)
		case "select":
			if len(fields) < 2 {
				cmd.Println("select which suspect? e.g. select 2")
				continue
			}
			selectSuspect(cmd, session, fields[1])
		case "accuse":
			if err := app.confirmAccusation(cmd, session, packs); err != nil {
				return err
			}
		case "quit":
			app.director.Abandon()
			cmd.Println("Case abandoned.")
			return nil
		default:
			cmd.Println("Commands: clue, hint, suspects, select <n>, accuse, quit")
		}
	}
	return nil
}

func printSuspects(cmd *cobra.Command, puzzle *models.Puzzle) {
	cmd.Println("Suspects:")
	for i, suspect := range puzzle.Suspects {
		cmd.Printf("  %d. %s, %s — motive: %s, alibi: %s\n",
			i+1, suspect.Name, suspect.Role, suspect.Motive, suspect.Alibi)
	}
}

func (app *application) revealNextClue(cmd *cobra.Command, session *game.Session) {
	for _, clue := range session.Puzzle.Clues {
		if session.RevealClue(clue.ID) {
			cmd.Printf("Clue %d (%s): %s\n%s\n", clue.Order, clue.Type, clue.Title, clue.Content)
			return
		}
	}
	cmd.Println("No clues left.")
}

func (app *application) revealNextHint(cmd *cobra.Command, session *game.Session) {
	for _, hint := range session.Puzzle.Hints {
		if session.RevealHint(hint.ID) {
			cmd.Printf("Hint: %s\n", hint.Text)
			return
		}
	}
	cmd.Println("No hints left.")
}

func selectSuspect(cmd *cobra.Command, session *game.Session, arg string) {
	suspects := session.Puzzle.Suspects
	index, err := strconv.Atoi(arg)
	if err != nil || index < 1 || index > len(suspects) {
		cmd.Printf("Pick a suspect between 1 and %d.\n", len(suspects))
		return
	}
	suspect := suspects[index-1]
	if session.SelectSuspect(suspect.ID) {
		cmd.Printf("Selected %s. Type accuse to commit.\n", suspect.Name)
	}
}

// confirmAccusation is the committed, irrevocable step. The solution is
// fetched only here, and a fetch failure leaves the case playing so the
// player can simply accuse again.
func (app *application) confirmAccusation(cmd *cobra.Command, session *game.Session, packs []models.Pack) error {
	if session.SelectedSuspectID == "" {
		cmd.Println("Select a suspect first.")
		return nil
	}
	suspect, _ := session.Puzzle.Suspect(session.SelectedSuspectID)
	cmd.Printf("Verifying your accusation of %s...\n", suspect.Name)

	event, err := app.director.ConfirmAccusation(cmdContext())
	if err != nil {
		if errors.Is(err, game.ErrSolutionFetch) {
			cmd.Println("Could not reach the case archive. Try accusing again.")
			return nil
		}
		return err
	}

	if event.Correct {
		cmd.Printf("\nCase closed! %s %s\n", fmtStars(event.Stars), event.Label)
	} else {
		culprit, _ := session.Puzzle.Suspect(session.Solution.Culprit)
		cmd.Printf("\nWrong call. It was %s.\n", culprit.Name)
	}
	cmd.Println(session.Solution.Explanation)
	if session.Solution.FunFact != "" {
		cmd.Printf("Fun fact: %s\n", session.Solution.FunFact)
	}

	for _, id := range app.store.Ingest(event, packs) {
		achievement := achievementByID(id)
		cmd.Printf("Achievement unlocked: %s %s\n", achievement.Emoji, achievement.Title)
	}
	streak := app.store.State().Streak
	if event.Correct && event.Mode == models.ModeDaily {
		cmd.Printf("Streak: %d (best %d)\n", streak.Current, streak.Max)
	}
	return nil
}

func achievementByID(id string) achievements.Achievement {
	for _, achievement := range achievements.Canonical() {
		if achievement.ID == id {
			return achievement
		}
	}
	if packID, ok := strings.CutPrefix(id, "pack-"); ok {
		return achievements.Achievement{ID: id, Title: "Pack complete: " + packID, Emoji: "🏆"}
	}
	return achievements.Achievement{ID: id, Title: id}
}
