package main

import (
	"fmt"

	"github.com/gameshub/wordme/internal/config"
	"github.com/gameshub/wordme/internal/identity"
)

// newVerifier picks the caller verification strategy from AUTH_MODE.
func newVerifier(cfg *config.Config) (identity.Verifier, error) {
	switch cfg.AuthMode {
	case "introspect":
		return identity.NewIntrospector(cfg.AuthServiceURL), nil
	case "jwt":
		return identity.NewJWTVerifier(cfg.JWTSecret), nil
	case "static":
		return identity.NewStaticVerifier(cfg.AdminTokenHash), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}
}
