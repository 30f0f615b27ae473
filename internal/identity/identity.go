// internal/identity/identity.go
//
// Caller identity for Wordme.
// Responsibilities:
//   - Pull credentials off a request (bearer header, cookie, platform token headers).
//   - Verify them through a pluggable Verifier (introspection, JWT, static token).
//   - chi-compatible middleware that attaches the verified User to the context
//     and enforces roles on admin routes.

package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/gameshub/wordme/internal/apperr"
)

// RoleAdmin may manage the accepted-word catalogue.
const RoleAdmin = "admin"

// Platform token headers forwarded to the identity service.
const (
	HeaderTokenLogin   = "token_login"
	HeaderTokenAccount = "token_account"
	HeaderTokenDefault = "token_default"
)

// User is a verified caller.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// IsAdmin reports whether u may manage words.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Credentials are the raw, unverified tokens presented by a caller.
type Credentials struct {
	Authorization string // full header value, "Bearer ..."
	Bearer        string // token from the Authorization header or the cookie
	TokenLogin    string
	TokenAccount  string
	TokenDefault  string
}

// Empty reports whether no credential was presented at all.
func (c Credentials) Empty() bool {
	return c.Bearer == "" && c.TokenLogin == "" && c.TokenAccount == "" && c.TokenDefault == ""
}

// Verifier turns credentials into a User. It fails with apperr.Unauthenticated
// for bad credentials and apperr.Unavailable when verification itself failed.
type Verifier interface {
	Verify(ctx context.Context, c Credentials) (User, error)
}

var errUnauthorized = apperr.New(apperr.Unauthenticated, "Unauthorized")

// FromRequest extracts credentials from r. The bearer token comes from the
// Authorization header, falling back to cookie when non-empty.
func FromRequest(r *http.Request, cookie string) Credentials {
	c := Credentials{
		Authorization: r.Header.Get("Authorization"),
		TokenLogin:    r.Header.Get(HeaderTokenLogin),
		TokenAccount:  r.Header.Get(HeaderTokenAccount),
		TokenDefault:  r.Header.Get(HeaderTokenDefault),
	}
	if a := c.Authorization; strings.HasPrefix(strings.ToLower(a), "bearer ") {
		c.Bearer = strings.TrimSpace(a[7:])
	} else if cookie != "" {
		if ck, err := r.Cookie(cookie); err == nil {
			c.Bearer = ck.Value
		}
	}
	return c
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the verified caller stored in ctx, if any.
func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// ErrorWriter renders an error response; the HTTP layer passes its own so
// auth failures look like every other error.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Guard builds authentication middleware around a Verifier.
type Guard struct {
	v       Verifier
	cookie  string
	onError ErrorWriter
}

// NewGuard returns a Guard. cookie names an optional token cookie.
func NewGuard(v Verifier, cookie string, onError ErrorWriter) *Guard {
	return &Guard{v: v, cookie: cookie, onError: onError}
}

// Require rejects requests without valid credentials.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := FromRequest(r, g.cookie)
		if c.Empty() {
			g.onError(w, r, errUnauthorized)
			return
		}
		u, err := g.v.Verify(r.Context(), c)
		if err != nil {
			g.onError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// Optional attaches the caller when credentials verify and otherwise lets the
// request through anonymously.
func (g *Guard) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := FromRequest(r, g.cookie)
		if !c.Empty() {
			if u, err := g.v.Verify(r.Context(), c); err == nil {
				r = r.WithContext(WithUser(r.Context(), u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole must run after Require.
func (g *Guard) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFrom(r.Context())
			if !ok {
				g.onError(w, r, errUnauthorized)
				return
			}
			if u.Role != role {
				g.onError(w, r, apperr.New(apperr.Forbidden, "Forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
