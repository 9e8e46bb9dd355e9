// Package jwttest builds request contexts carrying verified access tokens.
package jwttest

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const Secret = "test-secret-key-for-jwt"

// NewService returns a JWT service signed with Secret.
func NewService() jwt.Service {
	return jwt.NewJWTService(Secret, "1h", "24h", false)
}

// Context returns ctx as jwtauth.Verifier would leave it for u's access token.
func Context(t testing.TB, u user.User) context.Context {
	t.Helper()
	svc := NewService()
	token, _, err := svc.GenerateAccessToken(u)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	decoded, err := svc.JWTAuth().Decode(token)
	if err != nil {
		t.Fatalf("decode access token: %v", err)
	}
	return jwtauth.NewContext(context.Background(), decoded, nil)
}
