package jwt

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

// Service issues and verifies HS256 access tokens.
type Service interface {
	GenerateAccessToken(p auth.Principal) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) Service {
	if accessTokenTTL <= 0 {
		accessTokenTTL = time.Hour
	}
	return &JWTService{
		accessTokenTTL: accessTokenTTL,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(p auth.Principal) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenTTL).Unix()

	claims := map[string]interface{}{
		"user_id":     p.UserID,
		"employee_id": returnValueOrNil(p.EmployeeID),
		"is_admin":    p.IsAdmin,
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, token, err = j.tokenAuth.Encode(claims)
	return token, expiresAt, err
}

func returnValueOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
