package identity

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier validates HS256 tokens signed with a shared secret. Claims:
// id (required), username, email, role.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, c Credentials) (User, error) {
	if c.Bearer == "" {
		return User{}, errUnauthorized
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(c.Bearer, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return User{}, errUnauthorized
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return User{}, errUnauthorized
	}
	name, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return User{ID: id, Name: name, Email: email, Role: role}, nil
}

// SignJWT issues a token accepted by JWTVerifier. Used by tooling and tests.
func SignJWT(secret string, u User, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	})
	return token.SignedString([]byte(secret))
}
