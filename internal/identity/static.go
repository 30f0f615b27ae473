package identity

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// StaticVerifier accepts a single operator token whose bcrypt hash is
// configured, for deployments without an identity service. The caller is
// always the admin.
type StaticVerifier struct {
	hash []byte
}

func NewStaticVerifier(bcryptHash string) *StaticVerifier {
	return &StaticVerifier{hash: []byte(bcryptHash)}
}

func (v *StaticVerifier) Verify(_ context.Context, c Credentials) (User, error) {
	if c.Bearer == "" || len(v.hash) == 0 {
		return User{}, errUnauthorized
	}
	if bcrypt.CompareHashAndPassword(v.hash, []byte(c.Bearer)) != nil {
		return User{}, errUnauthorized
	}
	return User{ID: "operator", Name: "operator", Role: RoleAdmin}, nil
}

// HashToken returns the bcrypt hash to configure for token.
func HashToken(token string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	return string(b), err
}
