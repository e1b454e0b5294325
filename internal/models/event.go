package models

// Mode distinguishes the shared daily puzzle from practice-pack play.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// CompletionEvent is the immutable message a terminal session hands to the
// player record. It is the only communication between the two machines.
type CompletionEvent struct {
	PuzzleID   string
	Mode       Mode
	Correct    bool
	CluesUsed  int
	TimeSpent  int
	Stars      int
	Label      string
	Difficulty int
	HintsUsed  int
}
