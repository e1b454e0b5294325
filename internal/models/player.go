package models

// Completion is a recorded outcome of one finished puzzle attempt. Replays
// overwrite the previous entry for the same puzzle id.
type Completion struct {
	SolvedAt   string `json:"solvedAt"`
	Correct    bool   `json:"correct"`
	CluesUsed  int    `json:"cluesUsed"`
	TimeSpent  int    `json:"timeSpent"`
	Stars      int    `json:"stars"`
	Difficulty int    `json:"difficulty,omitempty"`
	HintsUsed  int    `json:"hintsUsed,omitempty"`
}

// Streak tracks consecutive UTC calendar days with a correct daily
// completion. Current never exceeds Max.
type Streak struct {
	Current       int    `json:"current"`
	Max           int    `json:"max"`
	LastDailyDate string `json:"lastDailyDate"`
}

type Settings struct {
	ReduceMotion bool `json:"reduceMotion"`
}

// PlayerState is the durable, cross-session record for one client. It is
// persisted as a single JSON blob and must tolerate snapshots written by
// older versions that miss newer fields.
type PlayerState struct {
	CompletedPuzzles map[string]Completion `json:"completedPuzzles"`
	Streak           Streak                `json:"streak"`
	Settings         Settings              `json:"settings"`
	HasSeenTutorial  bool                  `json:"hasSeenTutorial"`
	Achievements     []string              `json:"achievements"`
}

// DefaultPlayerState returns the state of a fresh player.
func DefaultPlayerState() PlayerState {
	return PlayerState{
		CompletedPuzzles: map[string]Completion{},
		Streak:           Streak{Current: 0, Max: 0, LastDailyDate: ""},
		Settings:         Settings{ReduceMotion: false},
		HasSeenTutorial:  false,
		Achievements:     []string{},
	}
}

// MergeDefaults fills fields missing from older persisted snapshots so they
// load without crashing. Absence of a field is a recoverable default, never
// a hard error.
func (s PlayerState) MergeDefaults() PlayerState {
	if s.CompletedPuzzles == nil {
		s.CompletedPuzzles = map[string]Completion{}
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	return s
}

// HasAchievement reports whether the achievement id has been unlocked.
func (s PlayerState) HasAchievement(id string) bool {
	for _, unlocked := range s.Achievements {
		if unlocked == id {
			return true
		}
	}
	return false
}

// CorrectCompletions counts the correctly solved puzzles in the record.
func (s PlayerState) CorrectCompletions() int {
	count := 0
	for _, completion := range s.CompletedPuzzles {
		if completion.Correct {
			count++
		}
	}
	return count
}
