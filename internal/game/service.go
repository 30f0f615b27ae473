// internal/game/service.go
//
// Session state machine for Wordme.
// Responsibilities:
//   - Create sessions with a random 5-letter target (rows=6, cols=5).
//   - Validate and apply guesses: status → length → accepted vocabulary,
//     then evaluate and transition in_progress → won | lost.
//   - Serve read-only state without ever revealing the target.
//
// All mutation happens inside SessionStore.Update, which serializes callers
// per session id. A guess rejected at any check leaves the session untouched.

package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gameshub/wordme/internal/apperr"
	"github.com/gameshub/wordme/internal/words"
)

// SessionStore persists sessions keyed by id.
// Implementations may be backed by memory, Redis, SQL, etc.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error

	// Get returns a copy of the session or an apperr.NotFound error.
	Get(ctx context.Context, id string) (*Session, error)

	// Update runs fn with exclusive access to the session. If fn returns an
	// error the session is left as it was. The updated copy is returned.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
}

// TargetSource draws secret words.
type TargetSource interface {
	SampleOne(ctx context.Context) (string, error)
}

// Vocabulary answers whether a normalized word is an accepted guess.
type Vocabulary interface {
	Contains(ctx context.Context, word string) (bool, error)
}

// Service is the game state machine.
type Service struct {
	sessions SessionStore
	targets  TargetSource
	vocab    Vocabulary
	log      zerolog.Logger

	newID func() string
	now   func() time.Time
}

// NewService wires the state machine to its collaborators.
func NewService(sessions SessionStore, targets TargetSource, vocab Vocabulary, logger zerolog.Logger) *Service {
	return &Service{
		sessions: sessions,
		targets:  targets,
		vocab:    vocab,
		log:      logger.With().Str("component", "game").Logger(),
		newID:    randomID,
		now:      time.Now,
	}
}

// Created is returned by Create.
type Created struct {
	GameID string
	Rows   int
	Cols   int
}

// GuessOutcome is returned by Guess.
type GuessOutcome struct {
	GameID     string
	Guess      string
	Evaluation []LetterResult
	Status     Status
	Remaining  int
	Win        bool
}

// View is the client-visible state of a session.
type View struct {
	GameID  string
	Status  Status
	Guesses []GuessRecord
	Rows    int
	Cols    int
}

// Create starts a new session. It fails with apperr.Unavailable when no
// target word can be drawn; no session is stored in that case.
func (s *Service) Create(ctx context.Context) (Created, error) {
	target, err := s.targets.SampleOne(ctx)
	if err != nil {
		return Created{}, err
	}
	target = strings.ToUpper(target)
	if len(target) != Cols {
		return Created{}, fmt.Errorf("target %q has %d letters, want %d", target, len(target), Cols)
	}

	sess := &Session{
		ID:        s.newID(),
		Target:    target,
		Guesses:   []GuessRecord{},
		Status:    StatusInProgress,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return Created{}, fmt.Errorf("storing session: %w", err)
	}
	s.log.Debug().Str("gameId", sess.ID).Msg("game created")
	return Created{GameID: sess.ID, Rows: Rows, Cols: Cols}, nil
}

// Guess applies raw as the next guess of gameID.
func (s *Service) Guess(ctx context.Context, gameID, raw string) (GuessOutcome, error) {
	if strings.TrimSpace(gameID) == "" || strings.TrimSpace(raw) == "" {
		return GuessOutcome{}, apperr.New(apperr.Validation, "gameId and word are required")
	}
	guess := words.Fold(raw)

	var out GuessOutcome
	_, err := s.sessions.Update(ctx, gameID, func(sess *Session) error {
		if sess.Status.Terminal() {
			return apperr.New(apperr.InvalidState, "game already finished")
		}
		if len(guess) != Cols {
			return apperr.New(apperr.Validation, fmt.Sprintf("word must have %d letters", Cols))
		}
		ok, err := s.vocab.Contains(ctx, guess)
		if err != nil {
			return fmt.Errorf("checking accepted words: %w", err)
		}
		if !ok {
			return apperr.New(apperr.Unprocessable, "word is not accepted")
		}

		eval := Evaluate(guess, sess.Target)
		sess.Guesses = append(sess.Guesses, GuessRecord{Guess: guess, Evaluation: eval})

		win := guess == sess.Target
		switch {
		case win:
			sess.Status = StatusWon
		case len(sess.Guesses) >= Rows:
			sess.Status = StatusLost
		}

		out = GuessOutcome{
			GameID:     sess.ID,
			Guess:      guess,
			Evaluation: append([]LetterResult(nil), eval...),
			Status:     sess.Status,
			Remaining:  sess.Remaining(),
			Win:        win,
		}
		return nil
	})
	if err != nil {
		return GuessOutcome{}, err
	}

	ev := s.log.Debug()
	if out.Status.Terminal() {
		ev = s.log.Info()
	}
	ev.Str("gameId", gameID).Str("guess", out.Guess).Str("status", string(out.Status)).
		Int("remaining", out.Remaining).Msg("guess applied")
	return out, nil
}

// State returns the client-visible view of gameID.
func (s *Service) State(ctx context.Context, gameID string) (View, error) {
	sess, err := s.sessions.Get(ctx, gameID)
	if err != nil {
		return View{}, err
	}
	return View{
		GameID:  sess.ID,
		Status:  sess.Status,
		Guesses: sess.Guesses,
		Rows:    Rows,
		Cols:    Cols,
	}, nil
}

// randomID returns a 32-hex-char identifier from crypto/rand.
func randomID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
