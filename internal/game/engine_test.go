package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func states(s string) []State {
	out := make([]State, len(s))
	for i, c := range s {
		switch c {
		case 'C':
			out[i] = StateCorrect
		case 'P':
			out[i] = StatePresent
		default:
			out[i] = StateAbsent
		}
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		guess, target string
		want          string // C correct, P present, A absent
	}{
		{"CRANE", "CRANE", "CCCCC"},
		{"TRACE", "CRANE", "ACCPC"},
		{"LOLLY", "ALLOY", "PPCAC"},
		{"EERIE", "THERE", "PAPAC"},
		{"ABCDE", "FGHIJ", "AAAAA"},
		{"SPEED", "ABIDE", "AAPAP"},
		{"LLAMA", "HELLO", "PPAAA"},
		{"ONION", "NOONS", "PPAPP"},
	}
	for _, tt := range tests {
		t.Run(tt.guess+"/"+tt.target, func(t *testing.T) {
			got := Evaluate(tt.guess, tt.target)
			assert.Len(t, got, len(tt.guess))
			gotStates := make([]State, len(got))
			for i, r := range got {
				assert.Equal(t, string(tt.guess[i]), r.Letter)
				gotStates[i] = r.State
			}
			assert.Equal(t, states(tt.want), gotStates)
		})
	}
}

// A letter is never credited more often than it occurs in the target.
func TestEvaluateCreditsAtMostTargetCount(t *testing.T) {
	targets := []string{"ALLOY", "CRANE", "EERIE", "MAMMA", "ABBEY"}
	guesses := []string{"LLLLL", "AAAAA", "EEEEE", "MMAAM", "YEBBA", "BOBBY"}
	for _, target := range targets {
		for _, guess := range guesses {
			credited := map[string]int{}
			for _, r := range Evaluate(guess, target) {
				if r.State != StateAbsent {
					credited[r.Letter]++
				}
			}
			for letter, n := range credited {
				assert.LessOrEqual(t, n, strings.Count(target, letter), "%s vs %s letter %s", guess, target, letter)
			}
		}
	}
}

func TestSessionRemainingAndClone(t *testing.T) {
	s := &Session{ID: "x", Guesses: []GuessRecord{{Guess: "CRANE", Evaluation: Evaluate("CRANE", "TRACE")}}}
	assert.Equal(t, Rows-1, s.Remaining())

	c := s.Clone()
	c.Guesses[0].Evaluation[0].State = StateCorrect
	c.Guesses = append(c.Guesses, GuessRecord{Guess: "TRACE"})
	assert.Len(t, s.Guesses, 1)
	assert.Equal(t, StatePresent, s.Guesses[0].Evaluation[0].State)

	for i := 0; i < 10; i++ {
		s.Guesses = append(s.Guesses, GuessRecord{})
	}
	assert.Equal(t, 0, s.Remaining())
}
