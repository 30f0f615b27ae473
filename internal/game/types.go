// internal/game/types.go
//
// Core type definitions for the Wordme game engine.
// Defines:
//   - State: per-letter result of a guess (correct/present/absent).
//   - Status: lifecycle of a session (in_progress → won | lost).
//   - Session: state for a single in-progress or finished game.

package game

import "time"

const (
	Rows = 6 // maximum number of recorded guesses
	Cols = 5 // letters per target word
)

// State is the evaluation of a single letter in a guess.
//   - "correct": letter is in the target at the same position.
//   - "present": letter is in the target at another, unconsumed position.
//   - "absent":  letter has no unconsumed occurrence left in the target.
type State string

const (
	StateCorrect State = "correct"
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// LetterResult is one position of an evaluation.
type LetterResult struct {
	Letter string `json:"letter"`
	State  State  `json:"state"`
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool { return s != StatusInProgress }

// GuessRecord is one accepted guess with its evaluation.
type GuessRecord struct {
	Guess      string         `json:"guess"`
	Evaluation []LetterResult `json:"evaluation"`
}

// Session holds the state of a single game.
// Target is never serialized to clients.
type Session struct {
	ID        string
	Target    string // uppercase, Cols letters
	Guesses   []GuessRecord
	Status    Status
	CreatedAt time.Time
}

// Remaining is the number of attempts left.
func (s *Session) Remaining() int {
	return max(0, Rows-len(s.Guesses))
}

// Clone returns a deep copy safe to hand out of a store's critical section.
func (s *Session) Clone() *Session {
	c := *s
	c.Guesses = make([]GuessRecord, len(s.Guesses))
	for i, g := range s.Guesses {
		c.Guesses[i] = GuessRecord{
			Guess:      g.Guess,
			Evaluation: append([]LetterResult(nil), g.Evaluation...),
		}
	}
	return &c
}
