package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gameshub/wordme/internal/apperr"
)

// IntrospectTimeout bounds one call to the identity service.
const IntrospectTimeout = 3 * time.Second

// Introspector verifies callers by asking the platform identity service
// (GET {base}/api/auth/me) with the caller's own headers.
type Introspector struct {
	base   string
	client *http.Client
}

// NewIntrospector targets the identity service at baseURL.
func NewIntrospector(baseURL string) *Introspector {
	return &Introspector{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: IntrospectTimeout},
	}
}

// meResponse accepts both a bare user object and {"user": {...}}; Mongo-backed
// services report the id as _id.
type meResponse struct {
	ID    string `json:"id"`
	OID   string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	User  *struct {
		ID    string `json:"id"`
		OID   string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func (m meResponse) user() User {
	if m.User != nil {
		return User{ID: firstNonEmpty(m.User.ID, m.User.OID), Name: m.User.Name, Email: m.User.Email, Role: m.User.Role}
	}
	return User{ID: firstNonEmpty(m.ID, m.OID), Name: m.Name, Email: m.Email, Role: m.Role}
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// Verify requires the full platform header set, as the identity service does.
func (in *Introspector) Verify(ctx context.Context, c Credentials) (User, error) {
	if c.Authorization == "" || c.TokenLogin == "" || c.TokenAccount == "" || c.TokenDefault == "" {
		return User{}, errUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, IntrospectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, in.base+"/api/auth/me", nil)
	if err != nil {
		return User{}, apperr.Wrap(apperr.Unavailable, "Auth service unavailable", err)
	}
	req.Header.Set("Authorization", c.Authorization)
	req.Header.Set(HeaderTokenLogin, c.TokenLogin)
	req.Header.Set(HeaderTokenAccount, c.TokenAccount)
	req.Header.Set(HeaderTokenDefault, c.TokenDefault)

	resp, err := in.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("auth introspection failed")
		return User{}, apperr.Wrap(apperr.Unavailable, "Auth service unavailable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return User{}, errUnauthorized
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("identity service returned %d", resp.StatusCode)
		log.Error().Err(err).Msg("auth introspection failed")
		return User{}, apperr.Wrap(apperr.Unavailable, "Auth service unavailable", err)
	}

	var me meResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&me); err != nil {
		return User{}, apperr.Wrap(apperr.Unavailable, "Auth service unavailable", fmt.Errorf("decoding identity: %w", err))
	}
	u := me.user()
	if u.ID == "" {
		return User{}, errUnauthorized
	}
	return u, nil
}
