// internal/httpserver/server.go
//
// HTTP server wiring for the Wordme backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     structured request logging, JSON, CORS).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth, rate limited): POST /game, POST /guess,
//     GET /state/{gameId}.
//   - Word catalogue endpoints (auth + admin role): /words/*.
//   - Caller endpoints (auth): /me, /ping, /word.
//
// Everything is mounted under /api/wordme. Handlers return errors from the
// apperr taxonomy; writeErr maps them to status codes in one place.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gameshub/wordme/internal/game"
	"github.com/gameshub/wordme/internal/identity"
	"github.com/gameshub/wordme/internal/words"
)

// BasePath is the mount point of every route.
const BasePath = "/api/wordme"

// Games is the game state machine as used by the handlers.
type Games interface {
	Create(ctx context.Context) (game.Created, error)
	Guess(ctx context.Context, gameID, raw string) (game.GuessOutcome, error)
	State(ctx context.Context, gameID string) (game.View, error)
}

// Words is the accepted-word catalogue as used by the handlers.
type Words interface {
	Add(ctx context.Context, raw, createdBy string) (words.Word, error)
	Update(ctx context.Context, id, raw string) (words.Word, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, q words.ListQuery) (words.Page, error)
	Stats(ctx context.Context) (words.Stats, error)
	SampleOne(ctx context.Context) (string, error)
}

// Pinger is a dependency checked by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of a Server.
type Deps struct {
	Games    Games
	Words    Words
	Verifier identity.Verifier
	Checks   map[string]Pinger // name → dependency, reported by /health
	Logger   zerolog.Logger
}

// Options tune the HTTP surface.
type Options struct {
	Addr           string
	CORSOrigins    []string
	AuthCookie     string
	RateLimitRPS   float64 // 0 disables limiting
	RateLimitBurst int
}

// Server bundles the router and its collaborators.
type Server struct {
	r     *chi.Mux
	srv   *http.Server
	games Games
	words Words
	guard *identity.Guard
	lim   *ipLimiter

	checks map[string]Pinger
	log    zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps, o Options) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		games:  d.Games,
		words:  d.Words,
		lim:    newIPLimiter(o.RateLimitRPS, o.RateLimitBurst),
		checks: d.Checks,
		log:    d.Logger.With().Str("component", "http").Logger(),
	}
	s.guard = identity.NewGuard(d.Verifier, o.AuthCookie, s.writeErr)

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger(s.log))            // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(o.CORSOrigins))             // origin-aware CORS

	s.r.Route(BasePath, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "wordme-backend",
				"endpoints": []string{"/health", "POST /game", "POST /guess", "GET /state/{gameId}", "/words"},
			})
		})
		r.Get("/health", s.handleHealth)

		s.mountGame(r)
		s.mountWords(r)
		s.mountCaller(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.srv = &http.Server{
		Addr:              o.Addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Run serves until Shutdown is called.
func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests for up to 10s.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type result struct {
		Status string `json:"status"`
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]result, len(s.checks))
	status, overall := http.StatusOK, "ok"
	for name, p := range s.checks {
		checks[name] = result{Status: "ok"}
		if err := p.Ping(ctx); err != nil {
			s.log.Error().Err(err).Str("name", name).Msg("health check failed")
			checks[name] = result{Status: "error"}
			status, overall = http.StatusServiceUnavailable, "degraded"
		}
	}
	writeJSON(w, status, map[string]any{
		"status":  overall,
		"service": "wordme-backend",
		"checks":  checks,
	})
}
