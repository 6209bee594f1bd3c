package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(auth.Principal{UserID: "user-1", EmployeeID: "emp-1", IsAdmin: true})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestGenerateAccessToken_WrongSecretRejected(t *testing.T) {
	token, _, err := NewJWTService("secret-a", time.Hour).GenerateAccessToken(auth.Principal{UserID: "user-1"})
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(NewJWTService("secret-b", time.Hour).JWTAuth(), token)
	assert.Error(t, err)
}
