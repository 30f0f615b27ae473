package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameshub/wordme/internal/apperr"
)

func platformCreds() Credentials {
	return Credentials{
		Authorization: "Bearer abc",
		Bearer:        "abc",
		TokenLogin:    "l",
		TokenAccount:  "a",
		TokenDefault:  "d",
	}
}

func TestIntrospectorForwardsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"_id": "u1", "name": "Ana", "email": "ana@example.com", "role": "admin"},
		})
	}))
	defer srv.Close()

	u, err := NewIntrospector(srv.URL+"/").Verify(context.Background(), platformCreds())
	require.NoError(t, err)
	assert.Equal(t, User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "admin"}, u)
	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Equal(t, "l", got.Get(HeaderTokenLogin))
	assert.Equal(t, "a", got.Get(HeaderTokenAccount))
	assert.Equal(t, "d", got.Get(HeaderTokenDefault))
}

func TestIntrospectorErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		creds   Credentials
		kind    apperr.Kind
		noSrvOK bool
	}{
		{"upstream 401", http.StatusUnauthorized, `{"error":"no"}`, platformCreds(), apperr.Unauthenticated, false},
		{"upstream 500", http.StatusInternalServerError, `oops`, platformCreds(), apperr.Unavailable, false},
		{"garbage body", http.StatusOK, `not json`, platformCreds(), apperr.Unavailable, false},
		{"no id", http.StatusOK, `{"name":"x"}`, platformCreds(), apperr.Unauthenticated, false},
		{"missing platform headers", http.StatusOK, `{}`, Credentials{Authorization: "Bearer x", Bearer: "x"}, apperr.Unauthenticated, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called atomic.Bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called.Store(true)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewIntrospector(srv.URL).Verify(context.Background(), tt.creds)
			assert.Equal(t, tt.kind, apperr.KindOf(err), "err: %v", err)
			assert.Equal(t, !tt.noSrvOK, called.Load())
		})
	}
}

func TestIntrospectorUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewIntrospector(url).Verify(context.Background(), platformCreds())
	assert.True(t, apperr.Is(err, apperr.Unavailable))
	assert.Equal(t, "Auth service unavailable", apperr.Message(err))
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier("s3cret")

	tok, err := SignJWT("s3cret", User{ID: "u1", Name: "ana", Role: "admin"}, time.Hour)
	require.NoError(t, err)
	u, err := v.Verify(context.Background(), Credentials{Bearer: tok})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.IsAdmin())

	forged, err := SignJWT("other", User{ID: "u1", Role: "admin"}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), Credentials{Bearer: forged})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))

	expired, err := SignJWT("s3cret", User{ID: "u1"}, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), Credentials{Bearer: expired})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))

	anon, err := SignJWT("s3cret", User{}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), Credentials{Bearer: anon})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestStaticVerifier(t *testing.T) {
	hash, err := HashToken("letmein")
	require.NoError(t, err)
	v := NewStaticVerifier(hash)

	u, err := v.Verify(context.Background(), Credentials{Bearer: "letmein"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	_, err = v.Verify(context.Background(), Credentials{Bearer: "nope"})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))

	_, err = NewStaticVerifier("").Verify(context.Background(), Credentials{Bearer: "letmein"})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "wordme_token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", FromRequest(r, "wordme_token").Bearer)
	assert.Empty(t, FromRequest(r, "").Bearer)

	r.Header.Set("Authorization", "Bearer  from-header ")
	r.Header.Set(HeaderTokenLogin, "l")
	c := FromRequest(r, "wordme_token")
	assert.Equal(t, "from-header", c.Bearer)
	assert.Equal(t, "l", c.TokenLogin)
}

type stubVerifier map[string]User

func (s stubVerifier) Verify(_ context.Context, c Credentials) (User, error) {
	if u, ok := s[c.Bearer]; ok {
		return u, nil
	}
	return User{}, apperr.New(apperr.Unauthenticated, "Unauthorized")
}

func TestGuard(t *testing.T) {
	g := NewGuard(stubVerifier{
		"admin-token": {ID: "a", Role: RoleAdmin},
		"user-token":  {ID: "u", Role: "user"},
	}, "", func(w http.ResponseWriter, _ *http.Request, err error) {
		switch apperr.KindOf(err) {
		case apperr.Unauthenticated:
			w.WriteHeader(http.StatusUnauthorized)
		case apperr.Forbidden:
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, found := UserFrom(r.Context()); found {
			_, _ = w.Write([]byte(u.ID))
			return
		}
		_, _ = w.Write([]byte("anon"))
	})
	admin := g.Require(g.RequireRole(RoleAdmin)(ok))
	optional := g.Optional(ok)

	tests := []struct {
		name     string
		h        http.Handler
		token    string
		wantCode int
		wantBody string
	}{
		{"admin ok", admin, "admin-token", http.StatusOK, "a"},
		{"user forbidden", admin, "user-token", http.StatusForbidden, ""},
		{"bad token", admin, "zzz", http.StatusUnauthorized, ""},
		{"no token", admin, "", http.StatusUnauthorized, ""},
		{"optional anon", optional, "", http.StatusOK, "anon"},
		{"optional bad token", optional, "zzz", http.StatusOK, "anon"},
		{"optional user", optional, "user-token", http.StatusOK, "u"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			tt.h.ServeHTTP(w, r)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}
