package game_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameshub/wordme/internal/apperr"
	"github.com/gameshub/wordme/internal/game"
	"github.com/gameshub/wordme/internal/store"
)

type fixedTargets struct {
	word string
	err  error
}

func (f fixedTargets) SampleOne(context.Context) (string, error) { return f.word, f.err }

type vocab struct {
	words map[string]bool
	err   error
}

func (v vocab) Contains(_ context.Context, w string) (bool, error) {
	return v.words[w], v.err
}

func newVocab(ws ...string) vocab {
	m := make(map[string]bool, len(ws))
	for _, w := range ws {
		m[w] = true
	}
	return vocab{words: m}
}

var accepted = newVocab("CRANE", "TRACE", "SLATE", "PIANO", "MOUSE", "GHOST", "BRICK", "ALLOY", "LOLLY")

func newService(t *testing.T, target string, v game.Vocabulary) (*game.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(0)
	return game.NewService(mem, fixedTargets{word: target}, v, zerolog.Nop()), mem
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t, "crane", accepted)

	c, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Len(t, c.GameID, 32)
	assert.Equal(t, 6, c.Rows)
	assert.Equal(t, 5, c.Cols)

	sess, err := mem.Get(ctx, c.GameID)
	require.NoError(t, err)
	assert.Equal(t, "CRANE", sess.Target)
	assert.Equal(t, game.StatusInProgress, sess.Status)
	assert.Empty(t, sess.Guesses)

	other, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, c.GameID, other.GameID)
}

func TestCreateWithEmptyPool(t *testing.T) {
	mem := store.NewMemory(0)
	svc := game.NewService(mem, fixedTargets{err: apperr.New(apperr.Unavailable, "no target words available")}, accepted, zerolog.Nop())

	_, err := svc.Create(context.Background())
	assert.True(t, apperr.Is(err, apperr.Unavailable))
	assert.Equal(t, 0, mem.Len())
}

func TestGuessWins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", accepted)
	c, err := svc.Create(ctx)
	require.NoError(t, err)

	out, err := svc.Guess(ctx, c.GameID, "trace")
	require.NoError(t, err)
	assert.Equal(t, "TRACE", out.Guess)
	assert.False(t, out.Win)
	assert.Equal(t, game.StatusInProgress, out.Status)
	assert.Equal(t, 5, out.Remaining)
	assert.Equal(t, []game.LetterResult{
		{Letter: "T", State: game.StateAbsent},
		{Letter: "R", State: game.StateCorrect},
		{Letter: "A", State: game.StateCorrect},
		{Letter: "C", State: game.StatePresent},
		{Letter: "E", State: game.StateCorrect},
	}, out.Evaluation)

	out, err = svc.Guess(ctx, c.GameID, "Cráne")
	require.NoError(t, err)
	assert.True(t, out.Win)
	assert.Equal(t, game.StatusWon, out.Status)
	assert.Equal(t, 4, out.Remaining)
	for _, r := range out.Evaluation {
		assert.Equal(t, game.StateCorrect, r.State)
	}

	_, err = svc.Guess(ctx, c.GameID, "SLATE")
	assert.True(t, apperr.Is(err, apperr.InvalidState))

	view, err := svc.State(ctx, c.GameID)
	require.NoError(t, err)
	assert.Len(t, view.Guesses, 2)
	assert.Equal(t, game.StatusWon, view.Status)
}

func TestGuessLosesAfterSixMisses(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", accepted)
	c, err := svc.Create(ctx)
	require.NoError(t, err)

	misses := []string{"TRACE", "SLATE", "PIANO", "MOUSE", "GHOST", "BRICK"}
	var out game.GuessOutcome
	for i, w := range misses {
		out, err = svc.Guess(ctx, c.GameID, w)
		require.NoError(t, err)
		assert.Equal(t, game.Rows-1-i, out.Remaining)
	}
	assert.Equal(t, game.StatusLost, out.Status)
	assert.False(t, out.Win)
	assert.Equal(t, 0, out.Remaining)

	_, err = svc.Guess(ctx, c.GameID, "CRANE")
	assert.True(t, apperr.Is(err, apperr.InvalidState))

	view, err := svc.State(ctx, c.GameID)
	require.NoError(t, err)
	assert.Len(t, view.Guesses, game.Rows)
}

func TestWinningOnLastRowIsAWin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", accepted)
	c, err := svc.Create(ctx)
	require.NoError(t, err)

	for _, w := range []string{"TRACE", "SLATE", "PIANO", "MOUSE", "GHOST"} {
		_, err := svc.Guess(ctx, c.GameID, w)
		require.NoError(t, err)
	}
	out, err := svc.Guess(ctx, c.GameID, "CRANE")
	require.NoError(t, err)
	assert.True(t, out.Win)
	assert.Equal(t, game.StatusWon, out.Status)
	assert.Equal(t, 0, out.Remaining)
}

func TestRejectedGuessesLeaveHistoryUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", accepted)
	c, err := svc.Create(ctx)
	require.NoError(t, err)

	tests := []struct {
		name   string
		gameID string
		word   string
		kind   apperr.Kind
	}{
		{"missing word", c.GameID, "  ", apperr.Validation},
		{"missing game id", "", "CRANE", apperr.Validation},
		{"unknown game", "deadbeef", "CRANE", apperr.NotFound},
		{"too short", c.GameID, "CRAN", apperr.Validation},
		{"too long", c.GameID, "CRANES", apperr.Validation},
		{"not accepted", c.GameID, "ZZZZZ", apperr.Unprocessable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Guess(ctx, tt.gameID, tt.word)
			assert.Equal(t, tt.kind, apperr.KindOf(err), "err: %v", err)

			view, err := svc.State(ctx, c.GameID)
			require.NoError(t, err)
			assert.Empty(t, view.Guesses)
			assert.Equal(t, game.StatusInProgress, view.Status)
		})
	}
}

func TestVocabularyFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", vocab{err: errors.New("db down")})
	c, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.Guess(ctx, c.GameID, "TRACE")
	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
}

func TestStateUnknownGame(t *testing.T) {
	svc, _ := newService(t, "CRANE", accepted)
	_, err := svc.State(context.Background(), "nope")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestConcurrentGuessesNeverExceedRows(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", accepted)
	c, err := svc.Create(ctx)
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Guess(ctx, c.GameID, "SLATE")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, game.Rows, oks)
	for _, err := range errs {
		assert.True(t, apperr.Is(err, apperr.InvalidState))
	}
	view, err := svc.State(ctx, c.GameID)
	require.NoError(t, err)
	assert.Len(t, view.Guesses, game.Rows)
	assert.Equal(t, game.StatusLost, view.Status)
}
