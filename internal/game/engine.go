// internal/game/engine.go
//
// Guess evaluation for Wordme.
//
// Evaluate is pure: no state, no I/O. It implements the classic two-pass
// algorithm with correct multiset handling of repeated letters:
//
//   Pass 1: exact matches are "correct" and their target positions consumed.
//   Pass 2: left to right over the remaining guess positions, the earliest
//           unconsumed target position holding the same letter is consumed
//           and the guess letter is "present"; otherwise it is "absent".
//
// A letter is therefore credited at most as many times as it occurs in the
// target, and left-to-right order decides which repeat gets the credit.

package game

// Evaluate scores guess against target. Both must be uppercase and of equal
// byte length; the result has one entry per guess position.
func Evaluate(guess, target string) []LetterResult {
	n := len(guess)
	out := make([]LetterResult, n)
	consumed := exactMatches(guess, target)

	// used starts as a copy of the exact-match set; pass 2 extends it.
	used := make([]bool, len(target))
	copy(used, consumed)

	for i := 0; i < n; i++ {
		out[i].Letter = string(guess[i])
		if i < len(consumed) && consumed[i] {
			out[i].State = StateCorrect
			continue
		}
		if j := firstUnused(target, used, guess[i]); j >= 0 {
			used[j] = true
			out[i].State = StatePresent
		} else {
			out[i].State = StateAbsent
		}
	}
	return out
}

// exactMatches returns the set of target positions consumed by pass 1.
func exactMatches(guess, target string) []bool {
	set := make([]bool, len(target))
	for i := 0; i < len(guess) && i < len(target); i++ {
		set[i] = guess[i] == target[i]
	}
	return set
}

// firstUnused returns the earliest target index holding c that is not yet
// consumed, or -1.
func firstUnused(target string, used []bool, c byte) int {
	for j := 0; j < len(target); j++ {
		if !used[j] && target[j] == c {
			return j
		}
	}
	return -1
}
