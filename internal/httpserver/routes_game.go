// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game:
//   - POST /game            → start a session with a random 5-letter target
//   - POST /guess           → submit a guess {gameId, word}
//   - GET  /state/{gameId}  → guesses and status so far (target never included)
//
// Guests can play; a verified caller is attached to the context when present.
// POST routes are rate limited per client IP.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gameshub/wordme/internal/game"
)

func (s *Server) mountGame(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.guard.Optional)

		r.With(s.lim.middleware).Post("/game", s.handleNewGame)
		r.With(s.lim.middleware).Post("/guess", s.handleGuess)
		r.Get("/state/{gameId}", s.handleState)
	})
}

type newGameRes struct {
	GameID string `json:"gameId"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	c, err := s.games.Create(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: c.GameID, Rows: c.Rows, Cols: c.Cols})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

type guessRes struct {
	GameID     string              `json:"gameId"`
	Guess      string              `json:"guess"`
	Evaluation []game.LetterResult `json:"evaluation"`
	Status     game.Status         `json:"status"`
	Remaining  int                 `json:"remaining"`
	Win        bool                `json:"win"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := readJSON(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	out, err := s.games.Guess(r.Context(), req.GameID, req.Word)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{
		GameID:     out.GameID,
		Guess:      out.Guess,
		Evaluation: out.Evaluation,
		Status:     out.Status,
		Remaining:  out.Remaining,
		Win:        out.Win,
	})
}

type stateRes struct {
	GameID  string             `json:"gameId"`
	Status  game.Status        `json:"status"`
	Guesses []game.GuessRecord `json:"guesses"`
	Rows    int                `json:"rows"`
	Cols    int                `json:"cols"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	v, err := s.games.State(r.Context(), chi.URLParam(r, "gameId"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	guesses := v.Guesses
	if guesses == nil {
		guesses = []game.GuessRecord{}
	}
	writeJSON(w, http.StatusOK, stateRes{
		GameID:  v.GameID,
		Status:  v.Status,
		Guesses: guesses,
		Rows:    v.Rows,
		Cols:    v.Cols,
	})
}
