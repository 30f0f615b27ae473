// internal/httpserver/routes_words.go
//
// Admin routes for the accepted-word catalogue, under /words:
//   - GET    /words?length=&search=&page= → one page of a length bucket
//   - GET    /words/stats                 → counts per bucket
//   - POST   /words        {word}         → add
//   - PATCH  /words/{id}   {newWord}      → rename, possibly moving bucket
//   - DELETE /words/{id}                  → remove
//
// Every route requires a verified caller with the admin role.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/gameshub/wordme/internal/identity"
	"github.com/gameshub/wordme/internal/words"
)

func (s *Server) mountWords(r chi.Router) {
	r.Route("/words", func(r chi.Router) {
		r.Use(s.guard.Require)
		r.Use(s.guard.RequireRole(identity.RoleAdmin))

		r.Get("/", s.handleListWords)
		r.Get("/stats", s.handleWordStats)
		r.Post("/", s.handleAddWord)
		r.Patch("/{id}", s.handleUpdateWord)
		r.Delete("/{id}", s.handleDeleteWord)
	})
}

type wordRes struct {
	ID   string `json:"id"`
	Word string `json:"word"`
}

func toWordRes(w words.Word) wordRes { return wordRes{ID: w.ID, Word: w.Text} }

type paginationRes struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type listRes struct {
	List       []wordRes     `json:"list"`
	Pagination paginationRes `json:"pagination"`
}

// queryInt parses key, falling back to def when missing or not a number.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	p, err := s.words.List(r.Context(), words.ListQuery{
		Length: queryInt(r, "length", words.TargetLength),
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page", 1),
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listRes{
		List: lo.Map(p.Items, func(it words.Word, _ int) wordRes { return toWordRes(it) }),
		Pagination: paginationRes{
			Page:       p.Page,
			PerPage:    p.PerPage,
			Total:      p.Total,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
	})
}

type statsRes struct {
	Words5 int `json:"words5"`
	Words6 int `json:"words6"`
	Words7 int `json:"words7"`
	Total  int `json:"total"`
}

func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.words.Stats(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsRes{Words5: st.Words5, Words6: st.Words6, Words7: st.Words7, Total: st.Total})
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	me, _ := identity.UserFrom(r.Context())
	created, err := s.words.Add(r.Context(), req.Word, me.ID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.log.Info().Str("word", created.Text).Str("by", me.ID).Msg("word added")
	writeJSON(w, http.StatusCreated, toWordRes(created))
}

func (s *Server) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewWord string `json:"newWord"`
	}
	if err := readJSON(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	updated, err := s.words.Update(r.Context(), chi.URLParam(r, "id"), req.NewWord)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWordRes(updated))
}

func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	if err := s.words.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
