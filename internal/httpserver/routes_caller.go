package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gameshub/wordme/internal/apperr"
	"github.com/gameshub/wordme/internal/identity"
)

// mountCaller registers the authenticated helper routes used by the game page:
// /me, /ping and /word.
func (s *Server) mountCaller(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.guard.Require)

		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			me, _ := identity.UserFrom(r.Context())
			writeJSON(w, http.StatusOK, map[string]any{"user": me})
		})
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			me, _ := identity.UserFrom(r.Context())
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "userId": me.ID})
		})
		r.Get("/word", s.handleRandomWord)
	})
}

// handleRandomWord reports an empty target pool as 404, unlike POST /game.
func (s *Server) handleRandomWord(w http.ResponseWriter, r *http.Request) {
	word, err := s.words.SampleOne(r.Context())
	if apperr.Is(err, apperr.Unavailable) {
		writeError(w, http.StatusNotFound, "no words found, seed the catalogue first")
		return
	}
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"word": word})
}
